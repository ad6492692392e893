package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/payment"
	"lifeflow-backend/pkg/utils"
)

// ── users ──

type mockUserRepo struct {
	mu    sync.Mutex
	users []*domain.User
}

func (m *mockUserRepo) add(u domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	m.users = append(m.users, &u)
	return &u
}

func (m *mockUserRepo) byEmail(email string) *domain.User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (m *mockUserRepo) InsertIfAbsent(_ context.Context, u *domain.User) (*domain.User, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if got := m.byEmail(u.Email); got != nil {
		cp := *got
		return &cp, false, nil
	}
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	cp := *u
	m.users = append(m.users, &cp)
	out := cp
	return &out, true, nil
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byEmail(email); u != nil {
		cp := *u
		return &cp, nil
	}
	return nil, domain.NotFound("user not found")
}

func (m *mockUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.NotFound("user not found")
}

func (m *mockUserRepo) List(_ context.Context, f domain.UserFilter) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		if f.Status == "" || u.Status == f.Status {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *mockUserRepo) Search(_ context.Context, s domain.UserSearch) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.User{}
	for _, u := range m.users {
		ok := true
		for _, c := range s.Matches {
			var v string
			switch c.Column {
			case domain.ColumnRole:
				v = u.Role
			case domain.ColumnEmail:
				v = u.Email
			case domain.ColumnBloodType:
				v = u.BloodType
			case domain.ColumnDistrict:
				v = u.District
			}
			ok = ok && v == c.Value
		}
		if ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func applyUser(u *domain.User, fields map[string]any) {
	for k, v := range fields {
		s, _ := v.(string)
		switch k {
		case "name":
			u.Name = s
		case "image":
			u.Image = s
		case "blood_type":
			u.BloodType = s
		case "district":
			u.District = s
		case "upazila":
			u.Upazila = s
		case "role":
			u.Role = s
		case "status":
			u.Status = s
		}
	}
}

func (m *mockUserRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			applyUser(u, fields)
			return nil
		}
	}
	return domain.NotFound("user not found")
}

func (m *mockUserRepo) UpdateByEmail(_ context.Context, email string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u := m.byEmail(email); u != nil {
		applyUser(u, fields)
		return nil
	}
	return domain.NotFound("user not found")
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// ── requests ──

type mockRequestRepo struct {
	mu   sync.Mutex
	rows []*domain.BloodRequest
	err  error
}

func (m *mockRequestRepo) Insert(_ context.Context, r *domain.BloodRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if r.ID == "" {
		r.ID = utils.NewID()
	}
	cp := *r
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *mockRequestRepo) FindByID(_ context.Context, id string) (*domain.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			cp := *r
			return &cp, nil
		}
	}
	return nil, domain.NotFound("request not found")
}

func (m *mockRequestRepo) List(_ context.Context, f domain.RequestFilter) ([]domain.BloodRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []domain.BloodRequest{}
	for _, r := range m.rows {
		if f.RequesterEmail != "" && r.RequesterEmail != f.RequesterEmail {
			continue
		}
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		out = append(out, *r)
	}
	if f.Limit > 0 {
		if f.Offset >= len(out) {
			return []domain.BloodRequest{}, nil
		}
		out = out[f.Offset:min(len(out), f.Offset+f.Limit)]
	}
	return out, nil
}

func (m *mockRequestRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID != id {
			continue
		}
		for k, v := range fields {
			s, _ := v.(string)
			switch k {
			case "status":
				r.Status = s
			case "donor_name":
				r.DonorName = s
			case "donor_email":
				r.DonorEmail = s
			case "recipient_name":
				r.RecipientName = s
			case "hospital_name":
				r.HospitalName = s
			case "blood_type":
				r.BloodType = s
			}
		}
		return nil
	}
	return domain.NotFound("request not found")
}

func (m *mockRequestRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("request not found")
}

func (m *mockRequestRepo) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return int64(len(m.rows)), nil
}

// ── blogs ──

type mockBlogRepo struct {
	mu    sync.Mutex
	blogs []*domain.Blog
}

func (m *mockBlogRepo) Insert(_ context.Context, b *domain.Blog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == "" {
		b.ID = utils.NewID()
	}
	cp := *b
	m.blogs = append(m.blogs, &cp)
	return nil
}

func (m *mockBlogRepo) FindByID(_ context.Context, id string) (*domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, domain.NotFound("blog not found")
}

func (m *mockBlogRepo) List(_ context.Context, f domain.BlogFilter) ([]domain.Blog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Blog{}
	needle := strings.ToLower(f.Search)
	for _, b := range m.blogs {
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(b.Title), needle) &&
			!strings.Contains(strings.ToLower(b.AuthorName), needle) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *mockBlogRepo) UpdateFields(_ context.Context, id string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.blogs {
		if b.ID != id {
			continue
		}
		if s, ok := fields["status"].(string); ok {
			b.Status = s
		}
		if v, ok := fields["published_date"]; ok {
			b.PublishedDate = nil
			if t, ok := v.(time.Time); ok {
				b.PublishedDate = &t
			}
		}
		return nil
	}
	return domain.NotFound("blog not found")
}

func (m *mockBlogRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, b := range m.blogs {
		if b.ID == id {
			m.blogs = append(m.blogs[:i], m.blogs[i+1:]...)
			return nil
		}
	}
	return domain.NotFound("blog not found")
}

// ── payments ──

type mockPaymentRepo struct {
	mu   sync.Mutex
	rows []*domain.Payment
}

func (m *mockPaymentRepo) InsertIfAbsent(_ context.Context, p *domain.Payment) (*domain.Payment, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.PaymentIntentID == p.PaymentIntentID {
			cp := *r
			return &cp, false, nil
		}
	}
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	cp := *p
	m.rows = append(m.rows, &cp)
	out := cp
	return &out, true, nil
}

func (m *mockPaymentRepo) List(_ context.Context) ([]domain.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Payment{}
	for i := len(m.rows) - 1; i >= 0; i-- {
		out = append(out, *m.rows[i])
	}
	return out, nil
}

func (m *mockPaymentRepo) SumAmount(_ context.Context) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total float64
	for _, r := range m.rows {
		v, err := strconv.ParseFloat(r.Amount, 64)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// ── regions ──

type mockRegionRepo struct {
	mu        sync.Mutex
	districts []domain.District
	upazilas  []domain.Upazila
	calls     int
}

func (m *mockRegionRepo) Districts(_ context.Context) ([]domain.District, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return append([]domain.District{}, m.districts...), nil
}

func (m *mockRegionRepo) DistrictByName(_ context.Context, name string) (*domain.District, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.districts {
		if d.Name == name {
			cp := d
			return &cp, nil
		}
	}
	return nil, domain.NotFound("district not found")
}

func (m *mockRegionRepo) Upazilas(_ context.Context, districtID string) ([]domain.Upazila, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := []domain.Upazila{}
	for _, u := range m.upazilas {
		if districtID == "" || u.DistrictID == districtID {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockRegionRepo) Save(_ context.Context, ds []domain.District, us []domain.Upazila) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.districts = append(m.districts, ds...)
	m.upazilas = append(m.upazilas, us...)
	return nil
}

// ── processor ──

type mockProcessor struct {
	intents   map[string]*payment.Intent
	created   []int64
	event     *payment.Event
	createErr error
}

func newMockProcessor() *mockProcessor {
	return &mockProcessor{intents: map[string]*payment.Intent{}}
}

func (m *mockProcessor) CreateIntent(_ context.Context, amountMinor int64, currency string) (*payment.Intent, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, amountMinor)
	id := "pi_" + strconv.Itoa(len(m.created))
	in := &payment.Intent{ID: id, ClientSecret: id + "_secret", AmountMinor: amountMinor, Currency: currency, Status: "requires_payment_method"}
	m.intents[id] = in
	return in, nil
}

func (m *mockProcessor) GetIntent(_ context.Context, id string) (*payment.Intent, error) {
	if in, ok := m.intents[id]; ok {
		return in, nil
	}
	return nil, domain.NotFound("payment intent not found")
}

func (m *mockProcessor) ParseWebhook(_ []byte, signature string) (*payment.Event, error) {
	if signature != "good" {
		return nil, payment.ErrBadSignature
	}
	if m.event == nil {
		return nil, errors.New("no event queued")
	}
	return m.event, nil
}
