// Package service holds the use cases behind the HTTP handlers. Services
// return *domain.Error values; the transport maps them to status codes.
package service

import (
	"context"

	"go.uber.org/zap"

	"lifeflow-backend/internal/core/cache"
	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/payment"
)

type Deps struct {
	Users     domain.UserRepository
	Requests  domain.RequestRepository
	Blogs     domain.BlogRepository
	Payments  domain.PaymentRepository
	Regions   domain.RegionRepository
	Processor payment.Processor // nil disables card payments
	Cache     *cache.Cache      // nil disables reference-data caching
	Currency  string
	Logger    *zap.Logger
}

// Services is the aggregate handed to the router.
type Services struct {
	Users    *UserService
	Requests *RequestService
	Blogs    *BlogService
	Payments *PaymentService
	Stats    *StatsService
	Regions  *RegionService
	Export   *ExportService
}

func New(d Deps) *Services {
	l := d.Logger
	if l == nil {
		l = zap.NewNop()
	}
	return &Services{
		Users:    NewUserService(d.Users, l),
		Requests: NewRequestService(d.Requests, d.Users, l),
		Blogs:    NewBlogService(d.Blogs, d.Users, l),
		Payments: NewPaymentService(d.Payments, d.Processor, d.Currency, l),
		Stats:    NewStatsService(d.Users, d.Requests, d.Payments),
		Regions:  NewRegionService(d.Regions, d.Cache, l),
		Export:   NewExportService(d.Requests, l),
	}
}

// actor resolves the caller's stored record. A session for an email that
// never registered acts as a plain donor.
func actor(ctx context.Context, users domain.UserRepository, email string) (*domain.User, error) {
	u, err := users.FindByEmail(ctx, email)
	if domain.IsNotFound(err) {
		return &domain.User{Email: email, Role: domain.RoleDonor, Status: domain.StatusActive}, nil
	}
	return u, err
}
