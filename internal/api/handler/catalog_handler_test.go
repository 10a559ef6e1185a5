package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

func multipartRequest(t *testing.T, method, target string, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		fw, err := w.CreateFormFile("image", "cover.png")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(image)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

// ── Courses ─────────────────────────────────────────────────────────────────

func TestCourseHandler_Create_WithImage(t *testing.T) {
	stub := &stubCourseService{
		createFn: func(_ context.Context, in ports.CourseInput) (*domain.Course, error) {
			if in.Title != "Go 101" || in.InstructorName != "Rob" || in.Lessons != "12" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.Progress != nil {
				t.Fatalf("create must not carry progress")
			}
			if in.Image == nil {
				t.Fatalf("expected image reader")
			}
			data, _ := io.ReadAll(in.Image)
			if string(data) != "fake-png" {
				t.Fatalf("unexpected image bytes %q", data)
			}
			return &domain.Course{ID: 5, Title: in.Title, Image: "/uploads/courses/x.png"}, nil
		},
	}
	h := NewCourseHandler(stub)

	req := multipartRequest(t, http.MethodPost, "/admin/courses", map[string]string{
		"title": "Go 101", "instructorName": "Rob", "lessons": "12", "progress": "40",
	}, []byte("fake-png"))

	res := serve(t, h.Create, req, nil)
	if res.err != nil {
		t.Fatalf("handler error: %v", res.err)
	}
	if res.rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.rec.Code)
	}
	var body courseResponse
	_ = json.Unmarshal(res.rec.Body.Bytes(), &body)
	if body.Course == nil || body.Course.ID != 5 {
		t.Fatalf("unexpected body: %s", res.rec.Body.String())
	}
}

func TestCourseHandler_Create_WithoutImage(t *testing.T) {
	stub := &stubCourseService{
		createFn: func(_ context.Context, in ports.CourseInput) (*domain.Course, error) {
			if in.Image != nil {
				t.Fatalf("expected no image")
			}
			return &domain.Course{ID: 6, Title: in.Title}, nil
		},
	}
	h := NewCourseHandler(stub)

	res := serve(t, h.Create, multipartRequest(t, http.MethodPost, "/admin/courses", map[string]string{"title": "Plain"}, nil), nil)
	if res.err != nil || res.rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d err=%v", res.rec.Code, res.err)
	}
}

func TestCourseHandler_Update_PassesProgress(t *testing.T) {
	stub := &stubCourseService{
		updateFn: func(_ context.Context, id uint, in ports.CourseInput) (*domain.Course, error) {
			if id != 9 || in.Progress == nil || *in.Progress != "150" {
				t.Fatalf("unexpected update: id=%d progress=%v", id, in.Progress)
			}
			return &domain.Course{ID: id, Title: in.Title, Progress: 100}, nil
		},
	}
	h := NewCourseHandler(stub)

	req := multipartRequest(t, http.MethodPut, "/admin/courses/9", map[string]string{"title": "Go", "progress": "150"}, nil)
	res := serve(t, h.Update, req, nil, "id", "9")
	if res.err != nil || res.rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d err=%v", res.rec.Code, res.err)
	}
}

func TestCourseHandler_Update_UnsupportedImage(t *testing.T) {
	stub := &stubCourseService{
		updateFn: func(context.Context, uint, ports.CourseInput) (*domain.Course, error) {
			return nil, domain.ErrUnsupportedImage
		},
	}
	h := NewCourseHandler(stub)

	req := multipartRequest(t, http.MethodPut, "/admin/courses/9", map[string]string{"title": "Go"}, []byte("GIF89a"))
	res := serve(t, h.Update, req, nil, "id", "9")
	if !errors.Is(res.err, domain.ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", res.err)
	}
}

func TestCourseHandler_Delete(t *testing.T) {
	var deleted uint
	h := NewCourseHandler(&stubCourseService{
		deleteFn: func(_ context.Context, id uint) error { deleted = id; return nil },
	})

	res := serve(t, h.Delete, httptest.NewRequest(http.MethodDelete, "/admin/courses/3", nil), nil, "id", "3")
	if res.err != nil || res.rec.Code != http.StatusNoContent || deleted != 3 {
		t.Fatalf("expected 204 deleting 3, got %d err=%v deleted=%d", res.rec.Code, res.err, deleted)
	}
}

func TestCourseHandler_BadID(t *testing.T) {
	h := NewCourseHandler(&stubCourseService{})

	res := serve(t, h.Get, httptest.NewRequest(http.MethodGet, "/courses/abc", nil), nil, "id", "abc")
	var he *echo.HTTPError
	if !errors.As(res.err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", res.err)
	}
}

func TestCourseHandler_Get_NotFound(t *testing.T) {
	h := NewCourseHandler(&stubCourseService{
		getFn: func(context.Context, uint) (*domain.Course, error) { return nil, domain.ErrCourseNotFound },
	})

	res := serve(t, h.Get, httptest.NewRequest(http.MethodGet, "/courses/77", nil), nil, "id", "77")
	if !errors.Is(res.err, domain.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", res.err)
	}
}

// ── Enrollment ──────────────────────────────────────────────────────────────

func TestEnrollmentHandler_Enroll(t *testing.T) {
	h := NewEnrollmentHandler(&stubEnrollmentService{
		enrollFn: func(_ context.Context, userID, courseID uint) (*domain.Enrollment, error) {
			if userID != 11 || courseID != 4 {
				t.Fatalf("unexpected ids %d %d", userID, courseID)
			}
			return &domain.Enrollment{ID: 1, UserID: userID, CourseID: courseID, Status: domain.EnrollmentEnrolled}, nil
		},
	})

	res := serve(t, h.Enroll, httptest.NewRequest(http.MethodPost, "/user/courses/4/enroll", nil), studentClaims(), "id", "4")
	if res.err != nil || res.rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d err=%v", res.rec.Code, res.err)
	}
}

func TestEnrollmentHandler_Enroll_Duplicate(t *testing.T) {
	h := NewEnrollmentHandler(&stubEnrollmentService{
		enrollFn: func(context.Context, uint, uint) (*domain.Enrollment, error) {
			return nil, domain.ErrAlreadyEnrolled
		},
	})

	res := serve(t, h.Enroll, httptest.NewRequest(http.MethodPost, "/user/courses/4/enroll", nil), studentClaims(), "id", "4")
	if !errors.Is(res.err, domain.ErrAlreadyEnrolled) {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", res.err)
	}
}

func TestEnrollmentHandler_MyCourses_EmptyArrays(t *testing.T) {
	h := NewEnrollmentHandler(&stubEnrollmentService{
		myCoursesFn: func(context.Context, uint) (*ports.MyCourses, error) { return &ports.MyCourses{}, nil },
	})

	res := serve(t, h.MyCourses, httptest.NewRequest(http.MethodGet, "/user/courses", nil), studentClaims())
	if res.err != nil {
		t.Fatalf("handler error: %v", res.err)
	}
	var body map[string]json.RawMessage
	_ = json.Unmarshal(res.rec.Body.Bytes(), &body)
	if string(body["enrolled"]) != "[]" || string(body["available"]) != "[]" {
		t.Fatalf("expected empty arrays, got %s", res.rec.Body.String())
	}
}
