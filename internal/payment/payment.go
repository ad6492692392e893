// Package payment talks to the card processor: it opens payment intents,
// reads them back, and verifies processor webhooks.
package payment

import (
	"context"
	"fmt"

	"lifeflow-backend/internal/domain"
)

const StatusSucceeded = "succeeded"

// Intent is the processor's view of a charge.
type Intent struct {
	ID           string
	ClientSecret string
	AmountMinor  int64
	Currency     string
	Status       string
	Email        string
	Metadata     map[string]string
}

// Event is a verified webhook delivery. Intent is set for payment_intent.*
// events only.
type Event struct {
	ID     string
	Type   string
	Intent *Intent
}

type Processor interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}

// ToMinorUnits converts a decimal price to cents, truncating sub-cent
// fractions.
func ToMinorUnits(price float64) (int64, error) {
	cents := int64(price * 100)
	if price <= 0 || cents <= 0 {
		return 0, domain.InvalidInput("price must be positive")
	}
	return cents, nil
}

// FormatMinor renders cents as a two-decimal amount, e.g. 1550 -> "15.50".
func FormatMinor(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
