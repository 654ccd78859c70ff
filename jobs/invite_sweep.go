package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/atlas-console/atlas-console/internal/invites"
	jobmetrics "github.com/atlas-console/atlas-console/internal/jobs"
)

// InviteSweeper removes expired, never-consumed invite codes.
type InviteSweeper struct {
	service *invites.Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewInviteSweeper constructs the sweep handler.
func NewInviteSweeper(service *invites.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *InviteSweeper {
	return &InviteSweeper{service: service, logger: logger, metrics: metrics}
}

// Handle processes TaskInviteSweep tasks.
func (s *InviteSweeper) Handle(ctx context.Context, t *asynq.Task) error {
	var payload InviteSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	tracker := s.metrics.Track("invite_sweep")
	removed, err := s.service.Sweep(ctx, time.Now().UTC())
	if err != nil {
		if s.logger != nil {
			s.logger.Error("invite sweep failed", slog.Any("error", err))
		}
		return tracker.End(err)
	}
	if s.logger != nil {
		s.logger.Info("invite sweep finished", slog.Int64("removed", removed))
	}
	return tracker.End(nil)
}
