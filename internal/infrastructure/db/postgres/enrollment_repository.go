package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	rec := enrollmentRecord{
		UserID:   e.UserID,
		CourseID: e.CourseID,
		Status:   string(e.Status),
		Progress: e.Progress,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&rec).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == enrollmentsUserCourseKey {
			return domain.ErrAlreadyEnrolled
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	*e = rec.toDomain()
	return nil
}

func (r *EnrollmentRepository) Reactivate(ctx context.Context, e *domain.Enrollment) error {
	var rec enrollmentRecord
	res := r.db.WithContext(ctx).Model(&rec).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND course_id = ? AND status <> ?", e.UserID, e.CourseID, string(domain.EnrollmentEnrolled)).
		Updates(map[string]any{"status": string(domain.EnrollmentEnrolled), "progress": 0})
	if res.Error != nil {
		return fmt.Errorf("reactivate enrollment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyEnrolled
	}
	*e = rec.toDomain()
	return nil
}

func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]domain.EnrolledCourse, error) {
	var recs []enrollmentRecord
	if err := r.db.WithContext(ctx).
		Preload("Course").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}

	out := make([]domain.EnrolledCourse, len(recs))
	for i := range recs {
		out[i] = domain.EnrolledCourse{Enrollment: recs[i].toDomain(), Course: recs[i].Course.toDomain()}
	}
	return out, nil
}

func (r *EnrollmentRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&enrollmentRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete enrollments: %w", res.Error)
	}
	return res.RowsAffected, nil
}
