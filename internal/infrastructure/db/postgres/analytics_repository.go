package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

var _ ports.AnalyticsRepository = (*AnalyticsRepository)(nil)

func (r *AnalyticsRepository) count(ctx context.Context, model interface{}, what string, conds ...interface{}) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if len(conds) > 0 {
		q = q.Where(conds[0], conds[1:]...)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count %s: %w", what, err)
	}
	return n, nil
}

func (r *AnalyticsRepository) CountUsers(ctx context.Context) (int64, error) {
	return r.count(ctx, &userRecord{}, "users")
}

func (r *AnalyticsRepository) CountCourses(ctx context.Context) (int64, error) {
	return r.count(ctx, &courseRecord{}, "courses")
}

func (r *AnalyticsRepository) CountEnrollments(ctx context.Context) (int64, error) {
	return r.count(ctx, &enrollmentRecord{}, "enrollments")
}

func (r *AnalyticsRepository) CountEnrollmentsByStatus(ctx context.Context, status domain.EnrollmentStatus) (int64, error) {
	return r.count(ctx, &enrollmentRecord{}, "enrollments", "status = ?", string(status))
}

func (r *AnalyticsRepository) UserSignupTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.createdSince(ctx, &userRecord{}, since)
}

func (r *AnalyticsRepository) EnrollmentTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return r.createdSince(ctx, &enrollmentRecord{}, since)
}

func (r *AnalyticsRepository) createdSince(ctx context.Context, model interface{}, since time.Time) ([]time.Time, error) {
	var times []time.Time
	if err := r.db.WithContext(ctx).Model(model).
		Where("created_at >= ?", since).
		Pluck("created_at", &times).Error; err != nil {
		return nil, fmt.Errorf("created_at since %s: %w", since.Format(time.RFC3339), err)
	}
	return times, nil
}

func (r *AnalyticsRepository) CourseEnrollmentStats(ctx context.Context) ([]ports.CourseEnrollmentStats, error) {
	var rows []ports.CourseEnrollmentStats
	err := r.db.WithContext(ctx).
		Table("courses AS c").
		Select(`c.id, c.title, c.category,
			COUNT(e.id) AS total,
			COUNT(e.id) FILTER (WHERE e.status = ?) AS completed`, string(domain.EnrollmentCompleted)).
		Joins("LEFT JOIN enrollments e ON e.course_id = c.id").
		Group("c.id").
		Order("c.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("course enrollment stats: %w", err)
	}
	return rows, nil
}

func (r *AnalyticsRepository) RecentEnrollments(ctx context.Context, limit int) ([]domain.RecentEnrollment, error) {
	var rows []domain.RecentEnrollment
	err := r.db.WithContext(ctx).
		Table("enrollments AS e").
		Select("e.id, e.status, e.created_at, u.username, u.email, c.title AS course_title").
		Joins("JOIN users u ON u.id = e.user_id").
		Joins("JOIN courses c ON c.id = e.course_id").
		Order("e.created_at DESC, e.id DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("recent enrollments: %w", err)
	}
	return rows, nil
}
