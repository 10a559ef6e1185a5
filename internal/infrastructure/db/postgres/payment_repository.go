package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Payment, error) {
	var recs []paymentRecord
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	out := make([]domain.Payment, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}

func (r *PaymentRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&paymentRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete payments: %w", res.Error)
	}
	return res.RowsAffected, nil
}
