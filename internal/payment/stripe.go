package payment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/stripe/stripe-go/v82/webhook"

	"lifeflow-backend/internal/domain"
)

// ErrBadSignature is returned for webhook payloads that fail verification.
var ErrBadSignature = domain.InvalidInput("invalid webhook signature")

type Stripe struct {
	api           *client.API
	webhookSecret string
}

func NewStripe(secretKey, webhookSecret string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api, webhookSecret: webhookSecret}
}

var _ Processor = (*Stripe)(nil)

func (s *Stripe) CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountMinor),
		Currency:           stripe.String(strings.ToLower(currency)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return nil, domain.Upstream("create payment intent", err)
	}
	return fromStripe(pi), nil
}

func (s *Stripe) GetIntent(ctx context.Context, id string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == 404 {
			return nil, domain.NotFound("payment intent not found")
		}
		return nil, domain.Upstream("get payment intent", err)
	}
	return fromStripe(pi), nil
}

func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	if s.webhookSecret == "" {
		return nil, domain.Forbidden("webhooks are not configured")
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, ErrBadSignature
	}
	return decodeEvent(ev)
}

func decodeEvent(ev stripe.Event) (*Event, error) {
	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if !strings.HasPrefix(out.Type, "payment_intent.") || ev.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
		return nil, domain.InvalidInput("malformed payment intent payload")
	}
	out.Intent = fromStripe(&pi)
	return out, nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	in := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Email:        pi.ReceiptEmail,
		Metadata:     pi.Metadata,
	}
	if pi.AmountReceived > 0 {
		in.AmountMinor = pi.AmountReceived
	}
	return in
}
