package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// CourseService manages the catalog and its images.
type CourseService struct {
	courses ports.CourseRepository
	images  ports.ImageStore
	tasks   ports.TaskQueue
	log     zerolog.Logger
}

func NewCourseService(courses ports.CourseRepository, images ports.ImageStore, tasks ports.TaskQueue, log zerolog.Logger) *CourseService {
	return &CourseService{
		courses: courses,
		images:  images,
		tasks:   tasks,
		log:     log.With().Str("component", "courses").Logger(),
	}
}

func (s *CourseService) Create(ctx context.Context, in ports.CourseInput) (*domain.Course, error) {
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	course := &domain.Course{}
	applyCourseInput(course, in)

	if in.Image != nil {
		path, err := s.images.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		course.Image = path
	}

	if err := s.courses.Create(ctx, course); err != nil {
		s.discardImage(course.Image)
		return nil, fmt.Errorf("create course: %w", err)
	}

	s.tasks.Submit(newActivityTask(fmt.Sprintf("course:%d", course.ID), domain.Activity{
		Type:        domain.ActivityCourseCreated,
		Description: fmt.Sprintf("Course %q created", course.Title),
		Metadata:    map[string]any{"courseId": course.ID, "title": course.Title},
	}))

	s.log.Info().Uint("course_id", course.ID).Str("title", course.Title).Msg("course created")
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, id uint, in ports.CourseInput) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateCourse(in); err != nil {
		return nil, err
	}

	previousImage := course.Image
	applyCourseInput(course, in)
	if in.Progress != nil {
		course.Progress = domain.ParseProgress(*in.Progress)
	}

	if in.Image != nil {
		path, err := s.images.Save(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		course.Image = path
	}

	if err := s.courses.Update(ctx, course); err != nil {
		if course.Image != previousImage {
			s.discardImage(course.Image)
		}
		return nil, fmt.Errorf("update course: %w", err)
	}

	if course.Image != previousImage {
		s.discardImage(previousImage)
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, id uint) error {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return err
	}
	s.discardImage(course.Image)

	if err := s.courses.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	s.log.Info().Uint("course_id", id).Msg("course deleted")
	return nil
}

func (s *CourseService) Get(ctx context.Context, id uint) (*domain.Course, error) {
	return s.courses.FindByID(ctx, id)
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.courses.List(ctx)
}

// discardImage removes a stored image. Failures are logged only.
func (s *CourseService) discardImage(path string) {
	if path == "" {
		return
	}
	if err := s.images.Remove(path); err != nil {
		s.log.Warn().Err(err).Str("image", path).Msg("failed to remove course image")
	}
}

func validateCourse(in ports.CourseInput) error {
	var problems []string
	if strings.TrimSpace(in.Title) == "" {
		problems = append(problems, "course title is required")
	}
	if utf8.RuneCountInString(in.InstructorName) > domain.MaxInstructorNameLength {
		problems = append(problems, "instructor name is too long")
	}
	return domain.NewValidationError(problems...)
}

func applyCourseInput(c *domain.Course, in ports.CourseInput) {
	c.Title = strings.TrimSpace(in.Title)
	c.Category = strings.TrimSpace(in.Category)
	c.Badge = strings.TrimSpace(in.Badge)
	c.Description = strings.TrimSpace(in.Description)
	c.Lessons = domain.ParseCount(in.Lessons)
	c.Enrolled = domain.ParseCount(in.Enrolled)
	c.InstructorName = strings.TrimSpace(in.InstructorName)
	c.Price = domain.ParsePrice(in.Price)
	c.Duration = strings.TrimSpace(in.Duration)
}
