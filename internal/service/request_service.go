package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/feature/filter"
)

// RequestInput carries the editable fields of a blood request.
type RequestInput struct {
	RequesterName string `json:"requesterName"`
	RecipientName string `json:"recipientName"`
	BloodType     string `json:"bloodType"`
	District      string `json:"district"`
	Upazila       string `json:"upazila"`
	HospitalName  string `json:"hospitalName"`
	FullAddress   string `json:"fullAddress"`
	DonationDate  string `json:"donationDate"`
	DonationTime  string `json:"donationTime"`
	Message       string `json:"requestMessage"`
}

func (in RequestInput) fields() map[string]any {
	out := map[string]any{}
	for col, v := range map[string]string{
		"requester_name": in.RequesterName,
		"recipient_name": in.RecipientName,
		"blood_type":     in.BloodType,
		"district":       in.District,
		"upazila":        in.Upazila,
		"hospital_name":  in.HospitalName,
		"full_address":   in.FullAddress,
		"donation_date":  in.DonationDate,
		"donation_time":  in.DonationTime,
		"message":        in.Message,
	} {
		if v = strings.TrimSpace(v); v != "" {
			out[col] = v
		}
	}
	return out
}

type StatusChange struct {
	Status     string `json:"status"`
	DonorName  string `json:"donorName"`
	DonorEmail string `json:"donorEmail"`
}

type RequestService struct {
	requests domain.RequestRepository
	users    domain.UserRepository
	log      *zap.Logger
}

func NewRequestService(requests domain.RequestRepository, users domain.UserRepository, l *zap.Logger) *RequestService {
	return &RequestService{requests: requests, users: users, log: l}
}

func (s *RequestService) All(ctx context.Context) ([]domain.BloodRequest, error) {
	return s.requests.List(ctx, domain.RequestFilter{})
}

// ListFor returns every request page by page to admins and volunteers, and
// only the caller's own requests to everyone else.
func (s *RequestService) ListFor(ctx context.Context, caller, page string) ([]domain.BloodRequest, error) {
	u, err := actor(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}
	return s.requests.List(ctx, filter.RequestListing(u, caller, page))
}

func (s *RequestService) Get(ctx context.Context, rawID string) (*domain.BloodRequest, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, err
	}
	return s.requests.FindByID(ctx, id)
}

// ByStatus lists requests in one status; empty means pending.
func (s *RequestService) ByStatus(ctx context.Context, status string) ([]domain.BloodRequest, error) {
	if status == "" {
		status = domain.RequestPending
	}
	if !domain.ValidRequestStatus(status) {
		return nil, domain.InvalidInput("invalid status")
	}
	return s.requests.List(ctx, domain.RequestFilter{Status: status})
}

func (s *RequestService) Create(ctx context.Context, caller string, in RequestInput) (*domain.BloodRequest, error) {
	u, err := actor(ctx, s.users, caller)
	if err != nil {
		return nil, err
	}
	if u.Status == domain.StatusBlocked {
		return nil, domain.Forbidden("blocked users cannot create requests")
	}
	name := strings.TrimSpace(in.RequesterName)
	if name == "" {
		name = u.Name
	}
	br := &domain.BloodRequest{
		RequesterName:  name,
		RequesterEmail: caller,
		RecipientName:  strings.TrimSpace(in.RecipientName),
		BloodType:      in.BloodType,
		District:       in.District,
		Upazila:        in.Upazila,
		HospitalName:   in.HospitalName,
		FullAddress:    in.FullAddress,
		DonationDate:   in.DonationDate,
		DonationTime:   in.DonationTime,
		Message:        in.Message,
		Status:         domain.RequestPending,
	}
	if err := s.requests.Insert(ctx, br); err != nil {
		return nil, err
	}
	return br, nil
}

// Update edits a request's details; owners, admins and volunteers only.
func (s *RequestService) Update(ctx context.Context, caller, rawID string, in RequestInput) (*domain.BloodRequest, error) {
	br, u, err := s.load(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}
	if br.RequesterEmail != caller && !u.Privileged() {
		return nil, domain.Forbidden("not allowed to edit this request")
	}
	fields := in.fields()
	if len(fields) == 0 {
		return nil, domain.InvalidInput("nothing to update")
	}
	if err := s.requests.UpdateFields(ctx, br.ID, fields); err != nil {
		return nil, err
	}
	return s.requests.FindByID(ctx, br.ID)
}

// ChangeStatus moves a request to any status for owners, admins and
// volunteers. Anyone else may only take a pending request to inprogress,
// which records them as its donor.
func (s *RequestService) ChangeStatus(ctx context.Context, caller, rawID string, ch StatusChange) (*domain.BloodRequest, error) {
	if !domain.ValidRequestStatus(ch.Status) {
		return nil, domain.InvalidInput("invalid status")
	}
	br, u, err := s.load(ctx, caller, rawID)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{"status": ch.Status}
	switch {
	case br.RequesterEmail == caller || u.Privileged():
		if v := strings.TrimSpace(ch.DonorEmail); v != "" {
			fields["donor_email"] = v
		}
		if v := strings.TrimSpace(ch.DonorName); v != "" {
			fields["donor_name"] = v
		}
	case br.Status == domain.RequestPending && ch.Status == domain.RequestInProgress:
		if u.Status == domain.StatusBlocked {
			return nil, domain.Forbidden("blocked users cannot donate")
		}
		name := strings.TrimSpace(ch.DonorName)
		if name == "" {
			name = u.Name
		}
		fields["donor_email"] = caller
		fields["donor_name"] = name
	default:
		return nil, domain.Forbidden("not allowed to change this request")
	}
	if err := s.requests.UpdateFields(ctx, br.ID, fields); err != nil {
		return nil, err
	}
	s.log.Info("request status changed",
		zap.String("id", br.ID), zap.String("from", br.Status), zap.String("to", ch.Status), zap.String("by", caller))
	return s.requests.FindByID(ctx, br.ID)
}

// Delete removes a request; owners and admins only.
func (s *RequestService) Delete(ctx context.Context, caller, rawID string) error {
	br, u, err := s.load(ctx, caller, rawID)
	if err != nil {
		return err
	}
	if br.RequesterEmail != caller && u.Role != domain.RoleAdmin {
		return domain.Forbidden("not allowed to delete this request")
	}
	return s.requests.Delete(ctx, br.ID)
}

func (s *RequestService) Count(ctx context.Context) (int64, error) {
	return s.requests.Count(ctx)
}

func (s *RequestService) load(ctx context.Context, caller, rawID string) (*domain.BloodRequest, *domain.User, error) {
	id, err := domain.ParseID(rawID)
	if err != nil {
		return nil, nil, err
	}
	br, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	u, err := actor(ctx, s.users, caller)
	if err != nil {
		return nil, nil, err
	}
	return br, u, nil
}
