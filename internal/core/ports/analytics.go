package ports

import (
	"context"
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// CourseEnrollmentStats is a course with its enrollment counters.
type CourseEnrollmentStats struct {
	ID        uint
	Title     string
	Category  string
	Total     int64
	Completed int64
}

// AnalyticsRepository exposes the raw reads the aggregator needs.
type AnalyticsRepository interface {
	CountUsers(ctx context.Context) (int64, error)
	CountCourses(ctx context.Context) (int64, error)
	CountEnrollments(ctx context.Context) (int64, error)
	CountEnrollmentsByStatus(ctx context.Context, status domain.EnrollmentStatus) (int64, error)
	UserSignupTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	EnrollmentTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	// CourseEnrollmentStats returns every course in insertion order.
	CourseEnrollmentStats(ctx context.Context) ([]CourseEnrollmentStats, error)
	RecentEnrollments(ctx context.Context, limit int) ([]domain.RecentEnrollment, error)
}

// AnalyticsCache stores computed reports per range.
type AnalyticsCache interface {
	Get(ctx context.Context, rangeDays int) (*domain.AnalyticsReport, bool, error)
	Set(ctx context.Context, rangeDays int, report *domain.AnalyticsReport) error
}

// AnalyticsService builds the admin analytics report.
type AnalyticsService interface {
	Report(ctx context.Context, rangeDays int) *domain.AnalyticsReport
}
