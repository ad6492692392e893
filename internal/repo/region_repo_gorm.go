package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifeflow-backend/internal/domain"
)

type RegionRepo struct{ db *gorm.DB }

func NewRegionRepo(db *gorm.DB) *RegionRepo { return &RegionRepo{db: db} }

var _ domain.RegionRepository = (*RegionRepo)(nil)

func (r *RegionRepo) Districts(ctx context.Context) ([]domain.District, error) {
	out := []domain.District{}
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *RegionRepo) DistrictByName(ctx context.Context, name string) (*domain.District, error) {
	var d domain.District
	err := r.db.WithContext(ctx).First(&d, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("district not found")
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &d, nil
}

func (r *RegionRepo) Upazilas(ctx context.Context, districtID string) ([]domain.Upazila, error) {
	q := r.db.WithContext(ctx).Model(&domain.Upazila{})
	if districtID != "" {
		q = q.Where("district_id = ?", districtID)
	}
	out := []domain.Upazila{}
	if err := q.Order("name ASC").Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

// Save upserts reference data in one transaction.
func (r *RegionRepo) Save(ctx context.Context, ds []domain.District, us []domain.Upazila) error {
	return storeErr(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ds) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&ds).Error; err != nil {
				return err
			}
		}
		if len(us) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&us).Error; err != nil {
				return err
			}
		}
		return nil
	}))
}
