package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
)

// Profile is the self-editable part of a user record.
type Profile struct {
	Name      string `json:"name"`
	Image     string `json:"image"`
	BloodType string `json:"bloodType"`
	District  string `json:"district"`
	Upazila   string `json:"upazila"`
}

func (p Profile) fields() map[string]any {
	out := map[string]any{}
	set := func(col, v string) {
		if v = strings.TrimSpace(v); v != "" {
			out[col] = v
		}
	}
	set("name", p.Name)
	set("image", p.Image)
	set("blood_type", p.BloodType)
	set("district", p.District)
	set("upazila", p.Upazila)
	return out
}

type UserStatus struct {
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

type UserService struct {
	users domain.UserRepository
	log   *zap.Logger
}

func NewUserService(users domain.UserRepository, l *zap.Logger) *UserService {
	return &UserService{users: users, log: l}
}

// Register stores the caller on first login and returns the stored record
// on every later call. Role and status always start as donor/active.
func (s *UserService) Register(ctx context.Context, caller, email string, p Profile) (*domain.User, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, domain.InvalidInput("email is required")
	}
	if caller != email {
		return nil, false, domain.Forbidden("cannot register another user")
	}
	u := &domain.User{
		Email:     email,
		Name:      strings.TrimSpace(p.Name),
		Image:     p.Image,
		BloodType: p.BloodType,
		District:  p.District,
		Upazila:   p.Upazila,
		Role:      domain.RoleDonor,
		Status:    domain.StatusActive,
	}
	stored, created, err := s.users.InsertIfAbsent(ctx, u)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("user registered", zap.String("email", email))
	}
	return stored, created, nil
}

func (s *UserService) Get(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) Status(ctx context.Context, email string) (*UserStatus, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &UserStatus{Email: u.Email, Role: u.Role, Status: u.Status}, nil
}

func (s *UserService) List(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	return s.users.List(ctx, f)
}

func (s *UserService) Search(ctx context.Context, q domain.UserSearch) ([]domain.User, error) {
	return s.users.Search(ctx, q)
}

// UpdateProfile lets a user edit their own profile; blank fields are kept.
func (s *UserService) UpdateProfile(ctx context.Context, caller, email string, p Profile) (*domain.User, error) {
	if caller != email {
		return nil, domain.Forbidden("cannot edit another user's profile")
	}
	fields := p.fields()
	if len(fields) == 0 {
		return nil, domain.InvalidInput("nothing to update")
	}
	if err := s.users.UpdateByEmail(ctx, email, fields); err != nil {
		return nil, err
	}
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) SetStatus(ctx context.Context, rawID, status string) error {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return err
	}
	if status != domain.StatusActive && status != domain.StatusBlocked {
		return domain.InvalidInput("invalid status")
	}
	if err := s.users.UpdateFields(ctx, id, map[string]any{"status": status}); err != nil {
		return err
	}
	s.log.Info("user status changed", zap.String("id", id), zap.String("status", status))
	return nil
}

func (s *UserService) SetRole(ctx context.Context, rawID, role string) error {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return err
	}
	if !domain.ValidRole(role) {
		return domain.InvalidInput("invalid role")
	}
	if err := s.users.UpdateFields(ctx, id, map[string]any{"role": role}); err != nil {
		return err
	}
	s.log.Info("user role changed", zap.String("id", id), zap.String("role", role))
	return nil
}

// Lookup loads the stored record behind a session email for role checks.
func (s *UserService) Lookup(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}
