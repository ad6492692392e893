package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

var _ domain.UserRepository = (*UserRepo)(nil)

// InsertIfAbsent is a single INSERT ... ON CONFLICT (email) DO NOTHING, so
// concurrent first logins for one email write exactly one row.
func (r *UserRepo) InsertIfAbsent(ctx context.Context, u *domain.User) (*domain.User, bool, error) {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(u)
	if res.Error != nil {
		return nil, false, storeErr(res.Error)
	}
	stored, err := r.FindByEmail(ctx, u.Email)
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected == 1, nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).First(&u, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user not found")
	}
	if err != nil {
		return nil, storeErr(err)
	}
	return &u, nil
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return findByID[domain.User](ctx, r.db, id, "user")
}

func (r *UserRepo) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	users := []domain.User{}
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (r *UserRepo) Search(ctx context.Context, s domain.UserSearch) ([]domain.User, error) {
	q := r.db.WithContext(ctx).Model(&domain.User{})
	for _, m := range s.Matches {
		q = q.Where(clause.Eq{Column: clause.Column{Name: string(m.Column)}, Value: m.Value})
	}
	users := []domain.User{}
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, storeErr(err)
	}
	return users, nil
}

func (r *UserRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return updateByID(ctx, r.db, &domain.User{}, id, fields, "user")
}

func (r *UserRepo) UpdateByEmail(ctx context.Context, email string, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Updates(fields)
	if res.Error != nil {
		return storeErr(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByEmail(ctx, email); err != nil {
			return err
		}
	}
	return nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.db, &domain.User{})
}
