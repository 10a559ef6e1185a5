package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// CourseHandler serves admin catalog management and the public catalog.
type CourseHandler struct {
	courses ports.CourseService
}

func NewCourseHandler(courses ports.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// courseForm reads the multipart course form. The returned closer releases
// the uploaded image, if any.
func courseForm(c echo.Context, withProgress bool) (ports.CourseInput, io.Closer, error) {
	form, err := c.FormParams()
	if err != nil {
		return ports.CourseInput{}, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}

	in := ports.CourseInput{
		Title:          form.Get("title"),
		Category:       form.Get("category"),
		Badge:          form.Get("badge"),
		Description:    form.Get("description"),
		Lessons:        form.Get("lessons"),
		Enrolled:       form.Get("enrolled"),
		InstructorName: form.Get("instructorName"),
		Price:          form.Get("price"),
		Duration:       form.Get("duration"),
	}
	if withProgress {
		if values, ok := form["progress"]; ok && len(values) > 0 {
			progress := values[0]
			in.Progress = &progress
		}
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return in, nopCloser{}, nil
	case err != nil:
		return in, nil, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload").SetInternal(err)
	}

	f, err := fh.Open()
	if err != nil {
		return in, nil, fmt.Errorf("open upload: %w", err)
	}
	in.Image = f
	return in, f, nil
}

// Create handles POST /admin/courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title           formData  string  true   "Course title"
// @Param        category        formData  string  false  "Category"
// @Param        badge           formData  string  false  "Badge"
// @Param        description     formData  string  false  "Description"
// @Param        lessons         formData  string  false  "Lesson count"
// @Param        enrolled        formData  string  false  "Displayed enrolled count"
// @Param        instructorName  formData  string  false  "Instructor"
// @Param        price           formData  string  false  "Price"
// @Param        duration        formData  string  false  "Duration"
// @Param        image           formData  file    false  "JPG, PNG or WebP"
// @Success      201  {object}  courseResponse
// @Failure      400  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /admin/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	in, closer, err := courseForm(c, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	course, err := h.courses.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, courseResponse{Course: course})
}

// Update handles PUT /admin/courses/:id. A new image replaces the stored one.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int     true   "Course ID"
// @Param        title     formData  string  true   "Course title"
// @Param        progress  formData  string  false  "Progress percentage"
// @Param        image     formData  file    false  "JPG, PNG or WebP"
// @Success      200  {object}  courseResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      415  {object}  errorResponse
// @Router       /admin/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	in, closer, err := courseForm(c, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	course, err := h.courses.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courseResponse{Course: course})
}

// Delete handles DELETE /admin/courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id  path  int  true  "Course ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.courses.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /courses/:id and GET /admin/courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id  path      int  true  "Course ID"
// @Success      200 {object}  courseResponse
// @Failure      404 {object}  errorResponse
// @Router       /courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	course, err := h.courses.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, courseResponse{Course: course})
}

// List handles GET /courses and GET /admin/courses, newest first.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Success      200  {object}  coursesResponse
// @Router       /courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.courses.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, coursesResponse{Courses: courses})
}
