package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"lifeflow-backend/internal/domain"
	"lifeflow-backend/pkg/utils"
)

type PaymentRepo struct{ db *gorm.DB }

func NewPaymentRepo(db *gorm.DB) *PaymentRepo { return &PaymentRepo{db: db} }

var _ domain.PaymentRepository = (*PaymentRepo)(nil)

// InsertIfAbsent keys on the processor's payment intent id, so webhook
// redeliveries and client confirmations record one row per charge.
func (r *PaymentRepo) InsertIfAbsent(ctx context.Context, p *domain.Payment) (*domain.Payment, bool, error) {
	if p.ID == "" {
		p.ID = utils.NewID()
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "payment_intent_id"}}, DoNothing: true}).
		Create(p)
	if res.Error != nil {
		return nil, false, storeErr(res.Error)
	}
	var stored domain.Payment
	if err := r.db.WithContext(ctx).First(&stored, "payment_intent_id = ?", p.PaymentIntentID).Error; err != nil {
		return nil, false, storeErr(err)
	}
	return &stored, res.RowsAffected == 1, nil
}

func (r *PaymentRepo) List(ctx context.Context) ([]domain.Payment, error) {
	out := []domain.Payment{}
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *PaymentRepo) SumAmount(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Payment{}).
		Select("COALESCE(SUM(CAST(amount AS DECIMAL(12,2))), 0)").
		Row().Scan(&total)
	if err != nil {
		return 0, storeErr(err)
	}
	return total, nil
}
