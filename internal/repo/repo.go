// Package repo implements the domain repositories on gorm.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"lifeflow-backend/internal/domain"
)

// Repos bundles every repository over one handle.
type Repos struct {
	Users    *UserRepo
	Requests *RequestRepo
	Blogs    *BlogRepo
	Payments *PaymentRepo
	Regions  *RegionRepo
}

func New(db *gorm.DB) *Repos {
	return &Repos{
		Users:    NewUserRepo(db),
		Requests: NewRequestRepo(db),
		Blogs:    NewBlogRepo(db),
		Payments: NewPaymentRepo(db),
		Regions:  NewRegionRepo(db),
	}
}

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.Conflict("duplicate record")
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.Timeout("request timed out", err)
	}
	return domain.Upstream("store failure", err)
}

func findByID[T any](ctx context.Context, db *gorm.DB, id, what string) (*T, error) {
	var m T
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound(what + " not found")
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &m, nil
}

// updateByID applies a partial update. RowsAffected can be 0 for a no-op
// update on some drivers, so a miss is confirmed with a count.
func updateByID(ctx context.Context, db *gorm.DB, model any, id string, fields map[string]any, what string) error {
	res := db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return storeErr(err)
	}
	if n == 0 {
		return domain.NotFound(what + " not found")
	}
	return nil
}

func deleteByID(ctx context.Context, db *gorm.DB, model any, id, what string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(model)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound(what + " not found")
	}
	return nil
}

func count(ctx context.Context, db *gorm.DB, model any) (int64, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}
