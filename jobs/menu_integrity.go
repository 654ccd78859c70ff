package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/atlas-console/atlas-console/internal/jobs"
	"github.com/atlas-console/atlas-console/internal/menu"
)

// MenuIntegrityScanner reports menus whose parent id points at a missing
// record. The tree builder promotes such menus to roots; the scan surfaces
// them so operators can repair the hierarchy.
type MenuIntegrityScanner struct {
	service *menu.Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewMenuIntegrityScanner constructs the scan handler.
func NewMenuIntegrityScanner(service *menu.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *MenuIntegrityScanner {
	return &MenuIntegrityScanner{service: service, logger: logger, metrics: metrics}
}

// Handle processes TaskMenuIntegrity tasks.
func (s *MenuIntegrityScanner) Handle(ctx context.Context, t *asynq.Task) error {
	var payload MenuIntegrityPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := s.metrics.Track("menu_integrity")
	orphans, err := s.service.Orphans(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("menu integrity scan failed", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	for _, m := range orphans {
		if s.logger != nil {
			s.logger.Warn("menu references missing parent",
				slog.String("menu_id", m.ID),
				slog.String("parent_id", m.ParentID))
		}
	}
	if s.logger != nil {
		s.logger.Info("menu integrity scan finished", slog.Int("orphans", len(orphans)))
	}
	return tracker.End(nil)
}
