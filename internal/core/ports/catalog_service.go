package ports

import (
	"context"
	"io"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// CourseInput is the course form as submitted. Numeric fields stay raw and are
// parsed leniently by the service.
type CourseInput struct {
	Title          string
	Category       string
	Badge          string
	Description    string
	Lessons        string
	Enrolled       string
	Progress       *string // update only; nil leaves progress untouched
	InstructorName string
	Price          string
	Duration       string
	Image          io.Reader // optional
}

// CourseService is the admin catalog use case.
type CourseService interface {
	Create(ctx context.Context, in CourseInput) (*domain.Course, error)
	Update(ctx context.Context, id uint, in CourseInput) (*domain.Course, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*domain.Course, error)
	List(ctx context.Context) ([]domain.Course, error)
}

// MyCourses partitions the catalog for one learner.
type MyCourses struct {
	Enrolled  []domain.EnrolledCourse
	Available []domain.Course
}

// EnrollmentService is the learner-side catalog use case.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error)
	MyCourses(ctx context.Context, userID uint) (*MyCourses, error)
}
