package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskInviteSweep deletes expired, never-consumed invite codes.
	TaskInviteSweep = "invite:sweep"
	// TaskMenuIntegrity scans for menus referencing a missing parent.
	TaskMenuIntegrity = "menu:integrity"
)

// InviteSweepPayload carries scheduling metadata for the sweep.
type InviteSweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewInviteSweepTask constructs an Asynq task for the invite sweep.
func NewInviteSweepTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(InviteSweepPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskInviteSweep, body, asynq.Queue(QueueDefault)), nil
}

// MenuIntegrityPayload carries scheduling metadata for the scan.
type MenuIntegrityPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// NewMenuIntegrityTask constructs an Asynq task for the menu integrity scan.
func NewMenuIntegrityTask(at time.Time) (*asynq.Task, error) {
	body, err := json.Marshal(MenuIntegrityPayload{ScheduledFor: at})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMenuIntegrity, body, asynq.Queue(QueueDefault)), nil
}
