package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var rec adminRecord
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrAdminNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find admin: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	rec := adminRecord{Email: admin.Email, PasswordHash: admin.PasswordHash}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	admin.ID = rec.ID
	admin.CreatedAt = rec.CreatedAt
	admin.UpdatedAt = rec.UpdatedAt
	return nil
}
