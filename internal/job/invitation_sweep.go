package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"peerchat-service/internal/repository"
)

// InvitationSweepJob flips pending invitations past their expiry horizon
// to expired. Read paths decide expiry from the clock, so the sweep only
// keeps stored statuses consistent for reporting.
type InvitationSweepJob struct {
	invitationRepo repository.InvitationRepository
	logger         *zap.Logger
}

// NewInvitationSweepJob creates a new InvitationSweepJob instance
func NewInvitationSweepJob(invitationRepo repository.InvitationRepository, logger *zap.Logger) *InvitationSweepJob {
	return &InvitationSweepJob{
		invitationRepo: invitationRepo,
		logger:         logger,
	}
}

// Run executes one sweep over stale pending invitations
func (j *InvitationSweepJob) Run() {
	ctx := context.Background()

	swept, err := j.invitationRepo.MarkStaleExpired(ctx, time.Now())
	if err != nil {
		j.logger.Error("Failed to sweep stale invitations", zap.Error(err))
		return
	}

	if swept > 0 {
		j.logger.Info("Swept stale invitations", zap.Int64("count", swept))
	}
}
