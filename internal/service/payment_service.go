package service

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/internal/payment"
)

const eventIntentSucceeded = "payment_intent.succeeded"

// Confirmation is what the client posts after the processor reports
// success. transactionId is accepted as an alias of paymentIntentId.
type Confirmation struct {
	PaymentIntentID string          `json:"paymentIntentId"`
	TransactionID   string          `json:"transactionId"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Metadata        json.RawMessage `json:"metadata"`
}

type PaymentService struct {
	payments domain.PaymentRepository
	proc     payment.Processor
	currency string
	log      *zap.Logger
}

func NewPaymentService(payments domain.PaymentRepository, proc payment.Processor, currency string, l *zap.Logger) *PaymentService {
	if currency == "" {
		currency = "usd"
	}
	return &PaymentService{payments: payments, proc: proc, currency: currency, log: l}
}

var errPaymentsDisabled = domain.Upstream("payments are not configured", nil)

// CreateIntent opens a card payment for price and returns its client secret.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	cents, err := payment.ToMinorUnits(price)
	if err != nil {
		return "", err
	}
	if s.proc == nil {
		return "", errPaymentsDisabled
	}
	in, err := s.proc.CreateIntent(ctx, cents, s.currency)
	if err != nil {
		s.log.Error("create payment intent", zap.Int64("amount", cents), zap.Error(err))
		return "", err
	}
	return in.ClientSecret, nil
}

// Confirm records a payment the processor reports as succeeded. The amount
// comes from the processor, never from the client.
func (s *PaymentService) Confirm(ctx context.Context, c Confirmation) (*domain.Payment, bool, error) {
	id := strings.TrimSpace(c.PaymentIntentID)
	if id == "" {
		id = strings.TrimSpace(c.TransactionID)
	}
	if id == "" {
		return nil, false, domain.InvalidInput("paymentIntentId is required")
	}
	if len(c.Metadata) > 0 && !json.Valid(c.Metadata) {
		return nil, false, domain.InvalidInput("metadata must be JSON")
	}
	if s.proc == nil {
		return nil, false, errPaymentsDisabled
	}
	in, err := s.proc.GetIntent(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if in.Status != payment.StatusSucceeded {
		return nil, false, domain.InvalidInput("payment has not succeeded")
	}
	email := strings.TrimSpace(c.Email)
	if email == "" {
		email = in.Email
	}
	return s.record(ctx, in, c.Name, email, c.Metadata)
}

// HandleWebhook verifies a processor delivery and records succeeded
// intents. Other event types are acknowledged and ignored.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if s.proc == nil {
		return errPaymentsDisabled
	}
	ev, err := s.proc.ParseWebhook(payload, signature)
	if err != nil {
		return err
	}
	if ev.Type != eventIntentSucceeded || ev.Intent == nil {
		s.log.Debug("webhook ignored", zap.String("event", ev.ID), zap.String("type", ev.Type))
		return nil
	}
	_, _, err = s.record(ctx, ev.Intent, ev.Intent.Metadata["name"], ev.Intent.Email, nil)
	return err
}

func (s *PaymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

func (s *PaymentService) record(ctx context.Context, in *payment.Intent, name, email string, meta json.RawMessage) (*domain.Payment, bool, error) {
	p := &domain.Payment{
		PaymentIntentID: in.ID,
		Amount:          payment.FormatMinor(in.AmountMinor),
		Currency:        in.Currency,
		Email:           email,
		Name:            strings.TrimSpace(name),
	}
	switch {
	case len(meta) > 0:
		p.Metadata = datatypes.JSON(meta)
	case len(in.Metadata) > 0:
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, false, domain.Internal("encode metadata", err)
		}
		p.Metadata = datatypes.JSON(b)
	}
	stored, created, err := s.payments.InsertIfAbsent(ctx, p)
	if err != nil {
		return nil, false, err
	}
	if created {
		s.log.Info("payment recorded",
			zap.String("intent", in.ID), zap.String("amount", p.Amount), zap.String("currency", p.Currency))
	}
	return stored, created, nil
}
