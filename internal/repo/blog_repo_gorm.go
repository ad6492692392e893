package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/pkg/utils"
)

type BlogRepo struct{ db *gorm.DB }

func NewBlogRepo(db *gorm.DB) *BlogRepo { return &BlogRepo{db: db} }

var _ domain.BlogRepository = (*BlogRepo)(nil)

func (r *BlogRepo) Insert(ctx context.Context, b *domain.Blog) error {
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	return storeErr(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BlogRepo) FindByID(ctx context.Context, id string) (*domain.Blog, error) {
	return findByID[domain.Blog](ctx, r.db, id, "blog")
}

func (r *BlogRepo) List(ctx context.Context, f domain.BlogFilter) ([]domain.Blog, error) {
	q := r.db.WithContext(ctx).Model(&domain.Blog{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(author_name) LIKE ?)", like, like)
	}
	out := []domain.Blog{}
	if err := q.Order("id DESC").Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *BlogRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &domain.Blog{}, id, fields, "blog")
}

func (r *BlogRepo) Delete(ctx context.Context, id string) error {
	return deleteByID(ctx, r.db, &domain.Blog{}, id, "blog")
}
