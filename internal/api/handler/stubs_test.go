package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Goodness-MArcel/oasis/internal/api/middleware"
	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// ── helpers ─────────────────────────────────────────────────────────────────

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

type call struct {
	rec *httptest.ResponseRecorder
	err error
}

// serve runs h against req with the given path params and optional claims.
func serve(t *testing.T, h echo.HandlerFunc, req *http.Request, claims *domain.SessionClaims, params ...string) call {
	t.Helper()
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params)%2 != 0 {
		t.Fatalf("params must be name/value pairs")
	}
	var names, values []string
	for i := 0; i < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	if claims != nil {
		c.Set(middleware.ClaimsKey, claims)
		c.Set(middleware.RoleKey, claims.Role)
	}
	return call{rec: rec, err: h(c)}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func studentClaims() *domain.SessionClaims {
	return &domain.SessionClaims{UserID: 11, Email: "ada@example.com", Username: "ada", Role: domain.RoleStudent}
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	return nil
}

// ── service stubs ───────────────────────────────────────────────────────────

type stubAuthService struct {
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.Session, error)
	profileFn        func(ctx context.Context, userID uint) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, in ports.UpdateProfileInput) (*ports.Session, error)
	forgotPasswordFn func(ctx context.Context, email string) error
	resetPasswordFn  func(ctx context.Context, in ports.ResetPasswordInput) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.profileFn(ctx, userID)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, in ports.UpdateProfileInput) (*ports.Session, error) {
	return s.updateProfileFn(ctx, in)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotPasswordFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, in ports.ResetPasswordInput) error {
	return s.resetPasswordFn(ctx, in)
}

type stubAdminAuthService struct {
	loginFn func(ctx context.Context, email, password string) (string, *domain.Admin, error)
}

func (s *stubAdminAuthService) Login(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	return s.loginFn(ctx, email, password)
}

type stubAnalyticsService struct {
	gotRange int
	report   *domain.AnalyticsReport
}

func (s *stubAnalyticsService) Report(_ context.Context, rangeDays int) *domain.AnalyticsReport {
	s.gotRange = rangeDays
	if s.report != nil {
		return s.report
	}
	r := domain.EmptyAnalyticsReport()
	r.RangeDays = rangeDays
	return r
}

type stubCourseService struct {
	createFn func(ctx context.Context, in ports.CourseInput) (*domain.Course, error)
	updateFn func(ctx context.Context, id uint, in ports.CourseInput) (*domain.Course, error)
	deleteFn func(ctx context.Context, id uint) error
	getFn    func(ctx context.Context, id uint) (*domain.Course, error)
	listFn   func(ctx context.Context) ([]domain.Course, error)
}

func (s *stubCourseService) Create(ctx context.Context, in ports.CourseInput) (*domain.Course, error) {
	return s.createFn(ctx, in)
}

func (s *stubCourseService) Update(ctx context.Context, id uint, in ports.CourseInput) (*domain.Course, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubCourseService) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

func (s *stubCourseService) Get(ctx context.Context, id uint) (*domain.Course, error) {
	return s.getFn(ctx, id)
}

func (s *stubCourseService) List(ctx context.Context) ([]domain.Course, error) { return s.listFn(ctx) }

type stubEnrollmentService struct {
	enrollFn    func(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error)
	myCoursesFn func(ctx context.Context, userID uint) (*ports.MyCourses, error)
}

func (s *stubEnrollmentService) Enroll(ctx context.Context, userID, courseID uint) (*domain.Enrollment, error) {
	return s.enrollFn(ctx, userID, courseID)
}

func (s *stubEnrollmentService) MyCourses(ctx context.Context, userID uint) (*ports.MyCourses, error) {
	return s.myCoursesFn(ctx, userID)
}

type stubMeetingService struct {
	listFn   func(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error)
	createFn func(ctx context.Context, in ports.CreateMeetingInput) (*domain.Meeting, error)
	updateFn func(ctx context.Context, id uint, in ports.UpdateMeetingInput) (*domain.Meeting, error)
	deleteFn func(ctx context.Context, id uint) error
}

func (s *stubMeetingService) List(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error) {
	return s.listFn(ctx, from, to)
}

func (s *stubMeetingService) Create(ctx context.Context, in ports.CreateMeetingInput) (*domain.Meeting, error) {
	return s.createFn(ctx, in)
}

func (s *stubMeetingService) Update(ctx context.Context, id uint, in ports.UpdateMeetingInput) (*domain.Meeting, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubMeetingService) Delete(ctx context.Context, id uint) error { return s.deleteFn(ctx, id) }

type stubUserAdminService struct {
	followupsFn func(ctx context.Context, in ports.FollowupInput) (*ports.FollowupResult, error)
	deleteFn    func(ctx context.Context, userID uint) error
	listFn      func(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error)
	paymentsFn  func(ctx context.Context, userID uint) ([]domain.Payment, error)
}

func (s *stubUserAdminService) SendFollowups(ctx context.Context, in ports.FollowupInput) (*ports.FollowupResult, error) {
	return s.followupsFn(ctx, in)
}

func (s *stubUserAdminService) DeleteUser(ctx context.Context, userID uint) error {
	return s.deleteFn(ctx, userID)
}

func (s *stubUserAdminService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubUserAdminService) UserPayments(ctx context.Context, userID uint) ([]domain.Payment, error) {
	return s.paymentsFn(ctx, userID)
}
