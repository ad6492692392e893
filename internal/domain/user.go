package domain

import (
	"context"
	"time"
)

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"

	StatusActive  = "active"
	StatusBlocked = "blocked"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"_id"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Name      string    `gorm:"size:128" json:"name"`
	Image     string    `gorm:"size:512" json:"image"`
	BloodType string    `gorm:"size:8;index" json:"bloodType"`
	District  string    `gorm:"size:64" json:"district"`
	Upazila   string    `gorm:"size:64" json:"upazila"`
	Role      string    `gorm:"size:16;not null;default:donor;index" json:"role"`
	Status    string    `gorm:"size:16;not null;default:active;index" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Privileged reports whether the user may act on every blood request.
func (u *User) Privileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleVolunteer
}

func ValidRole(r string) bool {
	return r == RoleDonor || r == RoleVolunteer || r == RoleAdmin
}

type UserRepository interface {
	// InsertIfAbsent stores u unless a user with the same email exists and
	// returns the stored record; created reports whether u was written.
	InsertIfAbsent(ctx context.Context, u *User) (stored *User, created bool, err error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	List(ctx context.Context, f UserFilter) ([]User, error)
	Search(ctx context.Context, s UserSearch) ([]User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	UpdateByEmail(ctx context.Context, email string, fields map[string]any) error
	Count(ctx context.Context) (int64, error)
}
