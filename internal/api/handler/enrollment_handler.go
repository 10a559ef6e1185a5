package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// EnrollmentHandler serves the learner side of the catalog.
type EnrollmentHandler struct {
	enrollments ports.EnrollmentService
}

func NewEnrollmentHandler(enrollments ports.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll handles POST /user/courses/:id/enroll.
//
// @Summary      Enroll in a course
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Course ID"
// @Success      201 {object}  enrollResponse
// @Failure      401 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Failure      409 {object}  errorResponse
// @Router       /user/courses/{id}/enroll [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}
	courseID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	enrollment, err := h.enrollments.Enroll(c.Request().Context(), claims.UserID, courseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, enrollResponse{Message: "Enrolled successfully", Enrollment: enrollment})
}

// MyCourses handles GET /user/courses.
//
// @Summary      Enrolled and available courses
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object}  myCoursesResponse
// @Failure      401 {object}  errorResponse
// @Router       /user/courses [get]
func (h *EnrollmentHandler) MyCourses(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	mine, err := h.enrollments.MyCourses(c.Request().Context(), claims.UserID)
	if err != nil {
		return err
	}
	resp := myCoursesResponse{Enrolled: mine.Enrolled, Available: mine.Available}
	if resp.Enrolled == nil {
		resp.Enrolled = []domain.EnrolledCourse{}
	}
	if resp.Available == nil {
		resp.Available = []domain.Course{}
	}
	return c.JSON(http.StatusOK, resp)
}
