package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// EnrollmentService handles learner enrollment.
type EnrollmentService struct {
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	tasks       ports.TaskQueue
	log         zerolog.Logger
}

func NewEnrollmentService(courses ports.CourseRepository, enrollments ports.EnrollmentRepository, tasks ports.TaskQueue, log zerolog.Logger) *EnrollmentService {
	return &EnrollmentService{
		courses:     courses,
		enrollments: enrollments,
		tasks:       tasks,
		log:         log.With().Str("component", "enrollments").Logger(),
	}
}

// Enroll relies on the (user, course) unique index: an active enrollment
// yields ErrAlreadyEnrolled, a cancelled or completed one is reactivated in
// place. There is never a second row.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := &domain.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   domain.EnrollmentEnrolled,
	}
	err = s.enrollments.Create(ctx, enrollment)
	if errors.Is(err, domain.ErrAlreadyEnrolled) {
		err = s.enrollments.Reactivate(ctx, enrollment)
	}
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyEnrolled) {
			return nil, err
		}
		return nil, fmt.Errorf("enroll: %w", err)
	}

	s.tasks.Submit(newActivityTask(fmt.Sprintf("user:%d", userID), domain.Activity{
		Type:        domain.ActivityEnrollment,
		Description: fmt.Sprintf("User %d enrolled in %q", userID, course.Title),
		Metadata: map[string]any{
			domain.ActivityUserIDKey: userID,
			"courseId":               courseID,
			"enrollmentId":           enrollment.ID,
		},
	}))
	return enrollment, nil
}

// MyCourses splits the catalog into courses the user is actively enrolled in
// and everything else.
func (s *EnrollmentService) MyCourses(ctx context.Context, userID uint) (*ports.MyCourses, error) {
	rows, err := s.enrollments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	catalog, err := s.courses.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	out := &ports.MyCourses{
		Enrolled:  []domain.EnrolledCourse{},
		Available: []domain.Course{},
	}
	active := make(map[uint]struct{}, len(rows))
	for _, r := range rows {
		if r.Enrollment.Status == domain.EnrollmentEnrolled {
			out.Enrolled = append(out.Enrolled, r)
			active[r.Enrollment.CourseID] = struct{}{}
		}
	}
	for _, c := range catalog {
		if _, ok := active[c.ID]; !ok {
			out.Available = append(out.Available, c)
		}
	}
	return out, nil
}
