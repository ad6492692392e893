package domain

import "context"

type District struct {
	ID     string `gorm:"primaryKey;size:16" json:"id" yaml:"id"`
	Name   string `gorm:"uniqueIndex;size:64;not null" json:"name" yaml:"name"`
	BnName string `gorm:"size:64" json:"bn_name" yaml:"bn_name"`
}

func (District) TableName() string { return "districts" }

type Upazila struct {
	ID         string `gorm:"primaryKey;size:16" json:"id" yaml:"id"`
	DistrictID string `gorm:"size:16;index;not null" json:"district_id" yaml:"district_id"`
	Name       string `gorm:"size:64;not null" json:"name" yaml:"name"`
	BnName     string `gorm:"size:64" json:"bn_name" yaml:"bn_name"`
}

func (Upazila) TableName() string { return "upazilas" }

type RegionRepository interface {
	Districts(ctx context.Context) ([]District, error)
	DistrictByName(ctx context.Context, name string) (*District, error)
	// Upazilas returns every upazila when districtID is empty.
	Upazilas(ctx context.Context, districtID string) ([]Upazila, error)
	Save(ctx context.Context, ds []District, us []Upazila) error
}
