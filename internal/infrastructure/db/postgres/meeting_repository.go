package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type MeetingRepository struct {
	db *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) List(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error) {
	q := r.db.WithContext(ctx).Order("start_at ASC")
	if from != nil && to != nil {
		q = q.Where("start_at BETWEEN ? AND ?", *from, *to)
	}

	var recs []meetingRecord
	if err := q.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	out := make([]domain.Meeting, len(recs))
	for i := range recs {
		out[i] = recs[i].toDomain()
	}
	return out, nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id uint) (*domain.Meeting, error) {
	var rec meetingRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find meeting: %w", err)
	}
	m := rec.toDomain()
	return &m, nil
}

func (r *MeetingRepository) Create(ctx context.Context, m *domain.Meeting) error {
	rec := newMeetingRecord(m)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	*m = rec.toDomain()
	return nil
}

func (r *MeetingRepository) Update(ctx context.Context, m *domain.Meeting) error {
	rec := newMeetingRecord(m)
	res := r.db.WithContext(ctx).Model(rec).
		Select("title", "description", "start_at", "end_at", "all_day", "updated_at").
		Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update meeting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMeetingNotFound
	}
	m.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *MeetingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&meetingRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete meeting: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrMeetingNotFound
	}
	return nil
}
