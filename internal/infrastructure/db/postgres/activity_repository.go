package postgres

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	rec := activityRecord{
		Type:        string(a.Type),
		Description: a.Description,
		Metadata:    datatypes.JSONMap(a.Metadata),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	a.ID = rec.ID
	a.CreatedAt = rec.CreatedAt
	return nil
}

// CreateForUser holds a key-share lock on the user row while inserting, so it
// waits for an in-flight deletion of that user and then finds no row.
func (r *ActivityRepository) CreateForUser(ctx context.Context, userID uint, a *domain.Activity) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		err := tx.Model(&userRecord{}).
			Clauses(clause.Locking{Strength: "KEY SHARE"}).
			Where("id = ?", userID).
			Pluck("id", &ids).Error
		if err != nil {
			return fmt.Errorf("lock activity user: %w", err)
		}
		if len(ids) == 0 {
			return domain.ErrUserNotFound
		}
		return NewActivityRepository(tx).Create(ctx, a)
	})
}

// DeleteByUser removes activities whose metadata links them to userID.
func (r *ActivityRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(activitiesOfUser(userID)).
		Delete(&activityRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete activities: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// activityUserExpr must stay identical to the activities_user_idx expression.
const activityUserExpr = "metadata ->> '" + domain.ActivityUserIDKey + "'"

func activitiesOfUser(userID uint) func(*gorm.DB) *gorm.DB {
	id := strconv.FormatUint(uint64(userID), 10)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(activityUserExpr+" = ?", id)
	}
}
