package domain

import "time"

// Accepted analytics windows in days.
var AnalyticsRanges = []int{7, 30, 90}

const DefaultAnalyticsRange = 7

// NormalizeRange returns days when it is an accepted window, DefaultAnalyticsRange otherwise.
func NormalizeRange(days int) int {
	for _, r := range AnalyticsRanges {
		if r == days {
			return days
		}
	}
	return DefaultAnalyticsRange
}

// CoursePerformance is one row of the top-courses ranking.
type CoursePerformance struct {
	ID               uint   `json:"id"`
	Title            string `json:"title"`
	Category         string `json:"category,omitempty"`
	TotalEnrollments int64  `json:"totalEnrollments"`
	CompletionRate   int    `json:"completionRate"`
	StatusLabel      string `json:"statusLabel"`
}

// RecentEnrollment is one row of the recent-activity feed.
type RecentEnrollment struct {
	ID          uint             `json:"id"`
	Status      EnrollmentStatus `json:"status"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	CourseTitle string           `json:"courseTitle"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// AnalyticsReport is the full admin analytics payload.
type AnalyticsReport struct {
	RangeDays          int                 `json:"rangeDays"`
	TotalUsers         int64               `json:"totalUsers"`
	ActiveCourses      int64               `json:"activeCourses"`
	TotalEnrollments   int64               `json:"totalEnrollments"`
	AvgCompletionRate  int                 `json:"avgCompletionRate"`
	TrafficLabels      []string            `json:"trafficLabels"`
	TrafficSignups     []int               `json:"trafficSignups"`
	TrafficEnrollments []int               `json:"trafficEnrollments"`
	TopCourses         []CoursePerformance `json:"topCourses"`
	RecentEnrollments  []RecentEnrollment  `json:"recentEnrollments"`
}

// EmptyAnalyticsReport is served whenever aggregation fails.
func EmptyAnalyticsReport() *AnalyticsReport {
	return &AnalyticsReport{
		RangeDays:          DefaultAnalyticsRange,
		TrafficLabels:      []string{},
		TrafficSignups:     []int{},
		TrafficEnrollments: []int{},
		TopCourses:         []CoursePerformance{},
		RecentEnrollments:  []RecentEnrollment{},
	}
}
