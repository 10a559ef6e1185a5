package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	rec := newUserRecord(user)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if conflict, ok := userConflict(err, domain.ErrDuplicateEmail); ok {
			return nil, conflict
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.first(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error) {
	return r.first(ctx, "reset_token = ? AND reset_token_expires > ?", token, now)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var rec userRecord
	err := r.db.WithContext(ctx).Where(query, args...).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return rec.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error) {
	return r.findMany(ctx, "id IN ?", ids)
}

func (r *UserRepository) FindByEmails(ctx context.Context, emails []string) ([]domain.User, error) {
	lowered := make([]string, len(emails))
	for i, e := range emails {
		lowered[i] = strings.ToLower(e)
	}
	return r.findMany(ctx, "LOWER(email) IN ?", lowered)
}

func (r *UserRepository) findMany(ctx context.Context, query string, arg interface{}) ([]domain.User, error) {
	var recs []userRecord
	if err := r.db.WithContext(ctx).Where(query, arg).Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	users := make([]domain.User, len(recs))
	for i := range recs {
		users[i] = *recs[i].toDomain()
	}
	return users, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, userID uint) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?) AND id <> ?", email, userID)
}

func (r *UserRepository) UsernameTakenByOther(ctx context.Context, username string, userID uint) (bool, error) {
	return r.exists(ctx, "username = ? AND id <> ?", username, userID)
}

func (r *UserRepository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userRecord{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

// Update writes profile, password and reset-token columns, including zero values.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	rec := newUserRecord(user)
	res := r.db.WithContext(ctx).Model(rec).
		Select("username", "email", "password_hash", "gender", "reset_token", "reset_token_expires", "updated_at").
		Updates(rec)
	if res.Error != nil {
		if conflict, ok := userConflict(res.Error, domain.ErrEmailTaken); ok {
			return conflict
		}
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	user.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]domain.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&userRecord{})
	if filter.Search != "" {
		like := "%" + escapeLike(filter.Search) + "%"
		q = q.Where("username ILIKE ? OR email ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	var recs []userRecord
	if err := q.Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&recs).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]domain.User, len(recs))
	for i := range recs {
		users[i] = *recs[i].toDomain()
	}
	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&userRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
