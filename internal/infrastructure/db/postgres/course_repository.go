package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	rec := newCourseRecord(course)
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	*course = rec.toDomain()
	return nil
}

// Update saves every column so cleared fields are persisted.
func (r *CourseRepository) Update(ctx context.Context, course *domain.Course) error {
	rec := newCourseRecord(course)
	res := r.db.WithContext(ctx).Model(rec).Select("*").Omit("id", "created_at").Updates(rec)
	if res.Error != nil {
		return fmt.Errorf("update course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	course.UpdatedAt = rec.UpdatedAt
	return nil
}

func (r *CourseRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&courseRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete course: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	return nil
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*domain.Course, error) {
	var rec courseRecord
	err := r.db.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find course: %w", err)
	}
	c := rec.toDomain()
	return &c, nil
}

func (r *CourseRepository) List(ctx context.Context) ([]domain.Course, error) {
	var recs []courseRecord
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	courses := make([]domain.Course, len(recs))
	for i := range recs {
		courses[i] = recs[i].toDomain()
	}
	return courses, nil
}
