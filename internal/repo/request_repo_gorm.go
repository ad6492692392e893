package repo

import (
	"context"

	"gorm.io/gorm"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/pkg/utils"
)

type RequestRepo struct{ db *gorm.DB }

func NewRequestRepo(db *gorm.DB) *RequestRepo { return &RequestRepo{db: db} }

var _ domain.RequestRepository = (*RequestRepo)(nil)

func (r *RequestRepo) Insert(ctx context.Context, br *domain.BloodRequest) error {
	if br.ID == "" {
		br.ID = utils.NewID()
	}
	return storeErr(r.db.WithContext(ctx).Create(br).Error)
}

func (r *RequestRepo) FindByID(ctx context.Context, id string) (*domain.BloodRequest, error) {
	return findByID[domain.BloodRequest](ctx, r.db, id, "request")
}

// List returns requests in insertion order (ids are time-ordered).
func (r *RequestRepo) List(ctx context.Context, f domain.RequestFilter) ([]domain.BloodRequest, error) {
	q := r.db.WithContext(ctx).Model(&domain.BloodRequest{})
	if f.RequesterEmail != "" {
		q = q.Where("requester_email = ?", f.RequesterEmail)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	q = q.Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	out := []domain.BloodRequest{}
	if err := q.Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *RequestRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &domain.BloodRequest{}, id, fields, "request")
}

func (r *RequestRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &domain.BloodRequest{}, id, "request")
}

func (r *RequestRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &domain.BloodRequest{})
}
