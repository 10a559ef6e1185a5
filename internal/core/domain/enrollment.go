package domain

import (
	"math"
	"time"
)

type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "enrolled"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

// Enrollment links a user to a course. (UserID, CourseID) is unique.
type Enrollment struct {
	ID        uint             `json:"id"`
	UserID    uint             `json:"user_id"`
	CourseID  uint             `json:"course_id"`
	Status    EnrollmentStatus `json:"status"`
	Progress  float64          `json:"progress"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// EnrolledCourse is an enrollment joined with its course.
type EnrolledCourse struct {
	Enrollment Enrollment `json:"enrollment"`
	Course     Course     `json:"course"`
}

// Course performance labels, strongest first.
const (
	CourseGrowing = "Growing"
	CourseStable  = "Stable"
	CourseNiche   = "Niche"
)

// CompletionRate is round(completed/total*100), or 0 when total is 0.
func CompletionRate(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ClassifyCourse labels a course from its enrollment volume and completion rate.
func ClassifyCourse(total int64, completionRate int) string {
	switch {
	case total >= 500 || completionRate >= 75:
		return CourseGrowing
	case total >= 100 || completionRate >= 50:
		return CourseStable
	default:
		return CourseNiche
	}
}
