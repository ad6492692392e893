package service

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"lifeflow-backend/internal/domain"
)

type StatsService struct {
	users    domain.UserRepository
	requests domain.RequestRepository
	payments domain.PaymentRepository
}

func NewStatsService(users domain.UserRepository, requests domain.RequestRepository, payments domain.PaymentRepository) *StatsService {
	return &StatsService{users: users, requests: requests, payments: payments}
}

// Compute recomputes the dashboard aggregate on every call.
func (s *StatsService) Compute(ctx context.Context) (*domain.Stats, error) {
	var st domain.Stats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.UserCount, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.RequestCount, err = s.requests.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		st.TotalAmount, err = s.payments.SumAmount(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	st.TotalAmount = math.Round(st.TotalAmount*100) / 100
	return &st, nil
}
