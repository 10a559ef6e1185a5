package service

import (
	"context"
	"testing"
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

type stubAnalyticsRepo struct {
	users, courses, enrollments, completed int64
	signups, enrolledAt                    []time.Time
	stats                                  []ports.CourseEnrollmentStats
	recent                                 []domain.RecentEnrollment
	statsErr                               error
	calls                                  int
}

func (r *stubAnalyticsRepo) CountUsers(context.Context) (int64, error) {
	r.calls++
	return r.users, nil
}
func (r *stubAnalyticsRepo) CountCourses(context.Context) (int64, error) { return r.courses, nil }
func (r *stubAnalyticsRepo) CountEnrollments(context.Context) (int64, error) {
	return r.enrollments, nil
}
func (r *stubAnalyticsRepo) CountEnrollmentsByStatus(_ context.Context, s domain.EnrollmentStatus) (int64, error) {
	if s == domain.EnrollmentCompleted {
		return r.completed, nil
	}
	return 0, nil
}
func (r *stubAnalyticsRepo) UserSignupTimes(context.Context, time.Time) ([]time.Time, error) {
	return r.signups, nil
}
func (r *stubAnalyticsRepo) EnrollmentTimes(context.Context, time.Time) ([]time.Time, error) {
	return r.enrolledAt, nil
}
func (r *stubAnalyticsRepo) CourseEnrollmentStats(context.Context) ([]ports.CourseEnrollmentStats, error) {
	return r.stats, r.statsErr
}
func (r *stubAnalyticsRepo) RecentEnrollments(_ context.Context, limit int) ([]domain.RecentEnrollment, error) {
	if len(r.recent) > limit {
		return r.recent[:limit], nil
	}
	return r.recent, nil
}

type stubAnalyticsCache struct {
	reports map[int]*domain.AnalyticsReport
}

func (c *stubAnalyticsCache) Get(_ context.Context, rangeDays int) (*domain.AnalyticsReport, bool, error) {
	r, ok := c.reports[rangeDays]
	return r, ok, nil
}

func (c *stubAnalyticsCache) Set(_ context.Context, rangeDays int, report *domain.AnalyticsReport) error {
	c.reports[rangeDays] = report
	return nil
}

var analyticsNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)

func newAnalyticsFixture(repo *stubAnalyticsRepo, cache ports.AnalyticsCache) *AnalyticsService {
	svc := NewAnalyticsService(repo, cache, discardLogger)
	svc.now = func() time.Time { return analyticsNow }
	return svc
}

func TestDayLabels(t *testing.T) {
	for _, days := range domain.AnalyticsRanges {
		labels, start := DayLabels(analyticsNow, days)
		if len(labels) != days {
			t.Fatalf("range %d: expected %d labels, got %d", days, days, len(labels))
		}
		if labels[len(labels)-1] != "2024-03-10" {
			t.Fatalf("range %d: last label must be today, got %s", days, labels[len(labels)-1])
		}
		for i := 1; i < len(labels); i++ {
			if labels[i-1] >= labels[i] {
				t.Fatalf("range %d: labels not strictly ascending at %d", days, i)
			}
		}
		if start.Format(dayLayout) != labels[0] || start.Hour() != 0 {
			t.Fatalf("range %d: start %v does not match first label %s", days, start, labels[0])
		}
	}
}

func TestBucketByDay(t *testing.T) {
	labels, _ := DayLabels(analyticsNow, 7)
	times := []time.Time{
		analyticsNow,
		analyticsNow.Add(-time.Hour),
		analyticsNow.AddDate(0, 0, -6),
		analyticsNow.AddDate(0, 0, -30),
	}

	counts := BucketByDay(labels, times)
	want := []int{1, 0, 0, 0, 0, 0, 2}
	for i := range want {
		if counts[i] != want[i] {
			t.Fatalf("bucket %d: got %d want %d (%v)", i, counts[i], want[i], counts)
		}
	}
}

func TestClassificationMonotonicity(t *testing.T) {
	rank := map[string]int{domain.CourseNiche: 0, domain.CourseStable: 1, domain.CourseGrowing: 2}
	for _, total := range []int64{0, 50, 99, 100, 250, 499, 500, 1000} {
		for rate := 0; rate <= 100; rate += 5 {
			base := rank[domain.ClassifyCourse(total, rate)]
			if rank[domain.ClassifyCourse(total+50, rate)] < base {
				t.Fatalf("raising total from %d lowered classification at rate %d", total, rate)
			}
			if rate+5 <= 100 && rank[domain.ClassifyCourse(total, rate+5)] < base {
				t.Fatalf("raising rate from %d lowered classification at total %d", rate, total)
			}
		}
	}
}

func TestAnalyticsService_Report(t *testing.T) {
	repo := &stubAnalyticsRepo{
		users: 12, courses: 3, enrollments: 8, completed: 3,
		signups:    []time.Time{analyticsNow, analyticsNow.AddDate(0, 0, -1)},
		enrolledAt: []time.Time{analyticsNow},
		stats: []ports.CourseEnrollmentStats{
			{ID: 1, Title: "Go", Total: 2, Completed: 2},
			{ID: 2, Title: "Rust", Total: 600, Completed: 0},
			{ID: 3, Title: "Zig", Total: 2, Completed: 0},
			{ID: 4, Title: "Empty", Total: 0, Completed: 0},
		},
		recent: []domain.RecentEnrollment{{ID: 9, Username: "amy", CourseTitle: "Go"}},
	}
	report := newAnalyticsFixture(repo, nil).Report(context.Background(), 30)

	if report.RangeDays != 30 || len(report.TrafficLabels) != 30 {
		t.Fatalf("unexpected range: %d (%d labels)", report.RangeDays, len(report.TrafficLabels))
	}
	if report.AvgCompletionRate != 38 {
		t.Fatalf("expected round(3/8*100)=38, got %d", report.AvgCompletionRate)
	}
	if report.TrafficSignups[29] != 1 || report.TrafficSignups[28] != 1 || report.TrafficEnrollments[29] != 1 {
		t.Fatalf("unexpected traffic: %v / %v", report.TrafficSignups, report.TrafficEnrollments)
	}

	top := report.TopCourses
	if len(top) != 4 || top[0].Title != "Rust" || top[1].Title != "Go" || top[2].Title != "Zig" {
		t.Fatalf("unexpected ranking: %+v", top)
	}
	if top[0].StatusLabel != domain.CourseGrowing || top[1].StatusLabel != domain.CourseGrowing || top[2].StatusLabel != domain.CourseNiche {
		t.Fatalf("unexpected labels: %+v", top)
	}
	if top[3].CompletionRate != 0 {
		t.Fatalf("course without enrollments must have 0 completion, got %d", top[3].CompletionRate)
	}
	if len(report.RecentEnrollments) != 1 {
		t.Fatalf("unexpected recent enrollments: %+v", report.RecentEnrollments)
	}
}

func TestAnalyticsService_Report_UnknownRangeDefaults(t *testing.T) {
	report := newAnalyticsFixture(&stubAnalyticsRepo{}, nil).Report(context.Background(), 45)
	if report.RangeDays != domain.DefaultAnalyticsRange || len(report.TrafficLabels) != domain.DefaultAnalyticsRange {
		t.Fatalf("expected default range, got %d", report.RangeDays)
	}
	if report.AvgCompletionRate != 0 {
		t.Fatalf("expected 0 completion with no enrollments, got %d", report.AvgCompletionRate)
	}
}

func TestAnalyticsService_Report_TopFiveOnly(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	for i := 1; i <= 8; i++ {
		repo.stats = append(repo.stats, ports.CourseEnrollmentStats{ID: uint(i), Title: "c", Total: int64(i)})
	}
	report := newAnalyticsFixture(repo, nil).Report(context.Background(), 7)
	if len(report.TopCourses) != topCoursesLimit || report.TopCourses[0].ID != 8 {
		t.Fatalf("unexpected top courses: %+v", report.TopCourses)
	}
}

func TestAnalyticsService_Report_FallbackOnError(t *testing.T) {
	cache := &stubAnalyticsCache{reports: map[int]*domain.AnalyticsReport{}}
	repo := &stubAnalyticsRepo{users: 5, statsErr: errBoom}

	report := newAnalyticsFixture(repo, cache).Report(context.Background(), 90)
	if report.TotalUsers != 0 || len(report.TrafficLabels) != 0 || report.TopCourses == nil {
		t.Fatalf("expected empty fallback report, got %+v", report)
	}
	if len(cache.reports) != 0 {
		t.Fatalf("fallback report must not be cached")
	}
}

func TestAnalyticsService_Report_UsesCache(t *testing.T) {
	cache := &stubAnalyticsCache{reports: map[int]*domain.AnalyticsReport{}}
	repo := &stubAnalyticsRepo{users: 4}
	svc := newAnalyticsFixture(repo, cache)

	first := svc.Report(context.Background(), 7)
	repo.users = 99
	second := svc.Report(context.Background(), 7)

	if repo.calls != 1 {
		t.Fatalf("expected one aggregation, got %d", repo.calls)
	}
	if first.TotalUsers != 4 || second.TotalUsers != 4 {
		t.Fatalf("expected cached totals, got %d then %d", first.TotalUsers, second.TotalUsers)
	}
}
