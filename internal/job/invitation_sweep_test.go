package job

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"peerchat-service/internal/domain"
)

type sweepRepoStub struct {
	swept   int64
	err     error
	calls   int
	sweptAt time.Time
}

func (s *sweepRepoStub) Create(ctx context.Context, invitation *domain.RoomInvitation) error {
	return nil
}

func (s *sweepRepoStub) FindByID(ctx context.Context, id uuid.UUID) (*domain.RoomInvitation, error) {
	return nil, domain.ErrInvitationNotFound
}

func (s *sweepRepoStub) FindLivePending(ctx context.Context, roomID, inviteeID uuid.UUID, now time.Time) (*domain.RoomInvitation, error) {
	return nil, domain.ErrInvitationNotFound
}

func (s *sweepRepoStub) FindByPair(ctx context.Context, roomID, inviteeID uuid.UUID) (*domain.RoomInvitation, error) {
	return nil, domain.ErrInvitationNotFound
}

func (s *sweepRepoStub) ListByInvitee(ctx context.Context, inviteeID uuid.UUID) ([]domain.RoomInvitation, error) {
	return nil, nil
}

func (s *sweepRepoStub) Update(ctx context.Context, invitation *domain.RoomInvitation) error {
	return nil
}

func (s *sweepRepoStub) MarkStaleExpired(ctx context.Context, now time.Time) (int64, error) {
	s.calls++
	s.sweptAt = now
	return s.swept, s.err
}

func TestInvitationSweepJob_Run(t *testing.T) {
	repo := &sweepRepoStub{swept: 3}
	job := NewInvitationSweepJob(repo, zap.NewNop())

	before := time.Now()
	job.Run()

	if repo.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", repo.calls)
	}
	if repo.sweptAt.Before(before) {
		t.Errorf("sweep horizon %v predates the run", repo.sweptAt)
	}
}

func TestInvitationSweepJob_RunSurvivesErrors(t *testing.T) {
	repo := &sweepRepoStub{err: errors.New("connection refused")}
	job := NewInvitationSweepJob(repo, zap.NewNop())

	// Run must not panic; the next scheduled run retries.
	job.Run()
	if repo.calls != 1 {
		t.Fatalf("expected 1 sweep call, got %d", repo.calls)
	}
}
