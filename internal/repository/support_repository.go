package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"peerchat-service/internal/domain"
)

type SupportRequestRepository interface {
	Create(ctx context.Context, request *domain.SupportRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.SupportRequest, error)
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]domain.SupportRequest, error)
	Update(ctx context.Context, request *domain.SupportRequest) error
	AvgResolutionSeconds(ctx context.Context, roomID uuid.UUID) (float64, error)
}

type supportRequestRepository struct {
	db *gorm.DB
}

func NewSupportRequestRepository(db *gorm.DB) SupportRequestRepository {
	return &supportRequestRepository{db: db}
}

func (r *supportRequestRepository) Create(ctx context.Context, request *domain.SupportRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *supportRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.SupportRequest, error) {
	var request domain.SupportRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *supportRequestRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]domain.SupportRequest, error) {
	var requests []domain.SupportRequest
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *supportRequestRepository) Update(ctx context.Context, request *domain.SupportRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// AvgResolutionSeconds aggregates the per-row duration between creation
// and resolution over resolved requests in a room. Returns 0 when nothing
// has been resolved yet.
func (r *supportRequestRepository) AvgResolutionSeconds(ctx context.Context, roomID uuid.UUID) (float64, error) {
	expr := "AVG(EXTRACT(EPOCH FROM (resolved_at - created_at)))"
	if r.db.Dialector.Name() == "sqlite" {
		expr = "AVG(strftime('%s', resolved_at) - strftime('%s', created_at))"
	}

	var avg *float64
	err := r.db.WithContext(ctx).Model(&domain.SupportRequest{}).
		Select(expr).
		Where("room_id = ? AND resolved_at IS NOT NULL", roomID).
		Scan(&avg).Error
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}
