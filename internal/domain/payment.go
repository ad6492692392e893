package domain

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

// Payment is written once per confirmed payment intent and never mutated.
type Payment struct {
	ID              string         `gorm:"primaryKey;size:36" json:"_id"`
	PaymentIntentID string         `gorm:"uniqueIndex;size:64;not null" json:"transactionId"`
	Amount          string         `gorm:"size:32;not null" json:"amount"`
	Currency        string         `gorm:"size:8" json:"currency"`
	Email           string         `gorm:"size:191;index" json:"email"`
	Name            string         `gorm:"size:128" json:"name"`
	Metadata        datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func (Payment) TableName() string { return "payments" }

type PaymentRepository interface {
	InsertIfAbsent(ctx context.Context, p *Payment) (stored *Payment, created bool, err error)
	List(ctx context.Context) ([]Payment, error)
	// SumAmount coerces the text amounts to numbers; 0 when empty.
	SumAmount(ctx context.Context) (float64, error)
}

type Stats struct {
	UserCount    int64   `json:"userCount"`
	RequestCount int64   `json:"requestCount"`
	TotalAmount  float64 `json:"totalAmount"`
}
