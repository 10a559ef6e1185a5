package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	topCoursesLimit        = 5
	recentEnrollmentsLimit = 5
	dayLayout              = "2006-01-02"
)

// AnalyticsService aggregates platform KPIs for the admin dashboard.
type AnalyticsService struct {
	repo  ports.AnalyticsRepository
	cache ports.AnalyticsCache // optional
	log   zerolog.Logger
	now   func() time.Time
}

func NewAnalyticsService(repo ports.AnalyticsRepository, cache ports.AnalyticsCache, log zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repo:  repo,
		cache: cache,
		log:   log.With().Str("component", "analytics").Logger(),
		now:   time.Now,
	}
}

// Report never fails: any aggregation error yields EmptyAnalyticsReport.
func (s *AnalyticsService) Report(ctx context.Context, rangeDays int) *domain.AnalyticsReport {
	rangeDays = domain.NormalizeRange(rangeDays)

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, rangeDays)
		if err != nil {
			s.log.Warn().Err(err).Int("range", rangeDays).Msg("analytics cache read failed")
		} else if ok {
			return cached
		}
	}

	report, err := s.build(ctx, rangeDays)
	if err != nil {
		s.log.Error().Err(err).Int("range", rangeDays).Msg("analytics aggregation failed")
		return domain.EmptyAnalyticsReport()
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, rangeDays, report); err != nil {
			s.log.Warn().Err(err).Int("range", rangeDays).Msg("analytics cache write failed")
		}
	}
	return report
}

func (s *AnalyticsService) build(ctx context.Context, rangeDays int) (*domain.AnalyticsReport, error) {
	totalUsers, err := s.repo.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	activeCourses, err := s.repo.CountCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}
	totalEnrollments, err := s.repo.CountEnrollments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	completed, err := s.repo.CountEnrollmentsByStatus(ctx, domain.EnrollmentCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed enrollments: %w", err)
	}

	labels, start := DayLabels(s.now(), rangeDays)

	signupTimes, err := s.repo.UserSignupTimes(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("signup times: %w", err)
	}
	enrollmentTimes, err := s.repo.EnrollmentTimes(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("enrollment times: %w", err)
	}

	stats, err := s.repo.CourseEnrollmentStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("course stats: %w", err)
	}

	recent, err := s.repo.RecentEnrollments(ctx, recentEnrollmentsLimit)
	if err != nil {
		return nil, fmt.Errorf("recent enrollments: %w", err)
	}
	if recent == nil {
		recent = []domain.RecentEnrollment{}
	}

	return &domain.AnalyticsReport{
		RangeDays:          rangeDays,
		TotalUsers:         totalUsers,
		ActiveCourses:      activeCourses,
		TotalEnrollments:   totalEnrollments,
		AvgCompletionRate:  domain.CompletionRate(completed, totalEnrollments),
		TrafficLabels:      labels,
		TrafficSignups:     BucketByDay(labels, signupTimes),
		TrafficEnrollments: BucketByDay(labels, enrollmentTimes),
		TopCourses:         TopCourses(stats, topCoursesLimit),
		RecentEnrollments:  recent,
	}, nil
}

// DayLabels returns rangeDays UTC dates ending at now's date, ascending, and
// the start of the first day.
func DayLabels(now time.Time, rangeDays int) ([]string, time.Time) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(rangeDays - 1))

	labels := make([]string, rangeDays)
	for i := range labels {
		labels[i] = start.AddDate(0, 0, i).Format(dayLayout)
	}
	return labels, start
}

// BucketByDay counts timestamps per UTC date aligned to labels. Timestamps
// falling outside labels are dropped.
func BucketByDay(labels []string, times []time.Time) []int {
	index := make(map[string]int, len(labels))
	for i, l := range labels {
		index[l] = i
	}
	counts := make([]int, len(labels))
	for _, t := range times {
		if i, ok := index[t.UTC().Format(dayLayout)]; ok {
			counts[i]++
		}
	}
	return counts
}

// TopCourses ranks courses by enrollment volume, keeping input order on ties.
func TopCourses(stats []ports.CourseEnrollmentStats, limit int) []domain.CoursePerformance {
	out := make([]domain.CoursePerformance, len(stats))
	for i, st := range stats {
		rate := domain.CompletionRate(st.Completed, st.Total)
		out[i] = domain.CoursePerformance{
			ID:               st.ID,
			Title:            st.Title,
			Category:         st.Category,
			TotalEnrollments: st.Total,
			CompletionRate:   rate,
			StatusLabel:      domain.ClassifyCourse(st.Total, rate),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalEnrollments > out[j].TotalEnrollments
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
