package database

import (
	"gorm.io/gorm"

	"lifeflow-backend/internal/domain"
)

// Models lists every table owned by the service.
func Models() []any {
	return []any{
		&domain.District{},
		&domain.Upazila{},
		&domain.User{},
		&domain.BloodRequest{},
		&domain.Blog{},
		&domain.Payment{},
	}
}

func Migrate(db *gorm.DB) error { return db.AutoMigrate(Models()...) }
