package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

var discardLogger = zerolog.Nop()

var errBoom = errors.New("boom")

// --- users ---

type stubUserRepo struct {
	mu     sync.Mutex
	users  map[uint]*domain.User
	nextID uint

	// usernameRaces makes the next n Create calls fail as if a concurrent
	// signup took the username first.
	usernameRaces int
	listErr       error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.ResetTokenExpires != nil {
		exp := *u.ResetTokenExpires
		clone.ResetTokenExpires = &exp
	}
	return &clone
}

func (r *stubUserRepo) seed(u domain.User) *domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = cloneUser(&u)
	return cloneUser(&u)
}

func (r *stubUserRepo) snapshot() map[uint]*domain.User {
	out := make(map[uint]*domain.User, len(r.users))
	for id, u := range r.users {
		out[id] = cloneUser(u)
	}
	return out
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.usernameRaces > 0 {
		r.usernameRaces--
		return nil, domain.ErrUsernameTaken
	}
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return nil, domain.ErrUsernameTaken
		}
	}
	r.nextID++
	created := cloneUser(user)
	created.ID = r.nextID
	created.CreatedAt = time.Now()
	r.users[created.ID] = cloneUser(created)
	return created, nil
}

func (r *stubUserRepo) FindByIDForUpdate(ctx context.Context, id uint) (*domain.User, error) {
	return r.FindByID(ctx, id)
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByResetToken(_ context.Context, token string, now time.Time) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetTokenValid(token, now) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []uint) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *cloneUser(u))
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindByEmails(_ context.Context, emails []string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, e := range emails {
		for _, u := range r.users {
			if strings.EqualFold(u.Email, e) {
				out = append(out, *cloneUser(u))
			}
		}
	}
	return out, nil
}

func (r *stubUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) EmailTakenByOther(_ context.Context, email string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != userID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) UsernameTakenByOther(_ context.Context, username string, userID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != userID && u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) List(_ context.Context, filter ports.ListUsersFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	search := strings.ToLower(filter.Search)
	var matched []domain.User
	for _, u := range r.users {
		if search == "" || strings.Contains(strings.ToLower(u.Username), search) || strings.Contains(strings.ToLower(u.Email), search) {
			matched = append(matched, *cloneUser(u))
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	start := (filter.Page - 1) * filter.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], int64(len(matched)), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

// --- admins ---

type stubAdminRepo struct {
	admins map[string]*domain.Admin
	nextID uint
}

func newStubAdminRepo() *stubAdminRepo {
	return &stubAdminRepo{admins: make(map[string]*domain.Admin)}
}

func (r *stubAdminRepo) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	a, ok := r.admins[email]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	r.nextID++
	admin.ID = r.nextID
	clone := *admin
	r.admins[admin.Email] = &clone
	return nil
}

// --- courses ---

type stubCourseRepo struct {
	courses   map[uint]*domain.Course
	nextID    uint
	createErr error
	updateErr error
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[uint]*domain.Course)}
}

func (r *stubCourseRepo) Create(_ context.Context, course *domain.Course) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	course.ID = r.nextID
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Update(_ context.Context, course *domain.Course) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.courses[course.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	clone := *course
	r.courses[course.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id uint) error {
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id uint) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) List(_ context.Context) ([]domain.Course, error) {
	out := make([]domain.Course, 0, len(r.courses))
	for _, c := range r.courses {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- enrollments ---

type stubEnrollmentRepo struct {
	rows   []domain.EnrolledCourse
	nextID uint
}

func (r *stubEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) error {
	for _, row := range r.rows {
		if row.Enrollment.UserID == e.UserID && row.Enrollment.CourseID == e.CourseID {
			return domain.ErrAlreadyEnrolled
		}
	}
	r.nextID++
	e.ID = r.nextID
	r.rows = append(r.rows, domain.EnrolledCourse{Enrollment: *e, Course: domain.Course{ID: e.CourseID}})
	return nil
}

func (r *stubEnrollmentRepo) Reactivate(_ context.Context, e *domain.Enrollment) error {
	for i, row := range r.rows {
		if row.Enrollment.UserID != e.UserID || row.Enrollment.CourseID != e.CourseID {
			continue
		}
		if row.Enrollment.Status == domain.EnrollmentEnrolled {
			return domain.ErrAlreadyEnrolled
		}
		r.rows[i].Enrollment.Status = domain.EnrollmentEnrolled
		r.rows[i].Enrollment.Progress = 0
		*e = r.rows[i].Enrollment
		return nil
	}
	return domain.ErrAlreadyEnrolled
}

func (r *stubEnrollmentRepo) ListByUser(_ context.Context, userID uint) ([]domain.EnrolledCourse, error) {
	var out []domain.EnrolledCourse
	for _, row := range r.rows {
		if row.Enrollment.UserID == userID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubEnrollmentRepo) DeleteByUser(_ context.Context, userID uint) (int64, error) {
	kept := r.rows[:0:0]
	var n int64
	for _, row := range r.rows {
		if row.Enrollment.UserID == userID {
			n++
			continue
		}
		kept = append(kept, row)
	}
	r.rows = kept
	return n, nil
}

// --- payments ---

type stubPaymentRepo struct {
	payments  []domain.Payment
	deleteErr error
}

func (r *stubPaymentRepo) ListByUser(_ context.Context, userID uint) ([]domain.Payment, error) {
	out := []domain.Payment{}
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *stubPaymentRepo) DeleteByUser(_ context.Context, userID uint) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	kept := r.payments[:0:0]
	var n int64
	for _, p := range r.payments {
		if p.UserID == userID {
			n++
			continue
		}
		kept = append(kept, p)
	}
	r.payments = kept
	return n, nil
}

// --- activities ---

type stubActivityRepo struct {
	mu         sync.Mutex
	activities []domain.Activity
	createErr  error
	users      *stubUserRepo // nil treats every user as existing
}

func (r *stubActivityRepo) Create(_ context.Context, a *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	a.ID = uint(len(r.activities) + 1)
	r.activities = append(r.activities, *a)
	return nil
}

func (r *stubActivityRepo) CreateForUser(ctx context.Context, userID uint, a *domain.Activity) error {
	if r.users != nil {
		if _, err := r.users.FindByID(ctx, userID); err != nil {
			return err
		}
	}
	return r.Create(ctx, a)
}

func (r *stubActivityRepo) DeleteByUser(_ context.Context, userID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.activities[:0:0]
	var n int64
	for _, a := range r.activities {
		if id, ok := a.Metadata[domain.ActivityUserIDKey].(uint); ok && id == userID {
			n++
			continue
		}
		kept = append(kept, a)
	}
	r.activities = kept
	return n, nil
}

func (r *stubActivityRepo) ofType(t domain.ActivityType) []domain.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Activity
	for _, a := range r.activities {
		if a.Type == t {
			out = append(out, a)
		}
	}
	return out
}

// --- meetings ---

type stubMeetingRepo struct {
	meetings map[uint]*domain.Meeting
	nextID   uint
	from, to *time.Time
}

func newStubMeetingRepo() *stubMeetingRepo {
	return &stubMeetingRepo{meetings: make(map[uint]*domain.Meeting)}
}

func (r *stubMeetingRepo) List(_ context.Context, from, to *time.Time) ([]domain.Meeting, error) {
	r.from, r.to = from, to
	out := []domain.Meeting{}
	for _, m := range r.meetings {
		if from != nil && to != nil && (m.Start.Before(*from) || m.Start.After(*to)) {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (r *stubMeetingRepo) FindByID(_ context.Context, id uint) (*domain.Meeting, error) {
	m, ok := r.meetings[id]
	if !ok {
		return nil, domain.ErrMeetingNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubMeetingRepo) Create(_ context.Context, m *domain.Meeting) error {
	r.nextID++
	m.ID = r.nextID
	clone := *m
	r.meetings[m.ID] = &clone
	return nil
}

func (r *stubMeetingRepo) Update(_ context.Context, m *domain.Meeting) error {
	clone := *m
	r.meetings[m.ID] = &clone
	return nil
}

func (r *stubMeetingRepo) Delete(_ context.Context, id uint) error {
	delete(r.meetings, id)
	return nil
}

// --- store ---

type stubTx struct {
	users       *stubUserRepo
	enrollments *stubEnrollmentRepo
	payments    *stubPaymentRepo
	activities  *stubActivityRepo
}

func (t stubTx) Users() ports.UserRepository             { return t.users }
func (t stubTx) Enrollments() ports.EnrollmentRepository { return t.enrollments }
func (t stubTx) Payments() ports.PaymentRepository       { return t.payments }
func (t stubTx) Activities() ports.ActivityRepository    { return t.activities }

// stubStore restores every repository to its pre-transaction state when fn fails.
type stubStore struct {
	tx stubTx
}

func (s *stubStore) WithTransaction(ctx context.Context, fn func(tx ports.TxRepositories) error) error {
	users := s.tx.users.snapshot()
	enrollments := append([]domain.EnrolledCourse(nil), s.tx.enrollments.rows...)
	payments := append([]domain.Payment(nil), s.tx.payments.payments...)
	activities := append([]domain.Activity(nil), s.tx.activities.activities...)

	if err := fn(s.tx); err != nil {
		s.tx.users.users = users
		s.tx.enrollments.rows = enrollments
		s.tx.payments.payments = payments
		s.tx.activities.activities = activities
		return err
	}
	return nil
}

// --- side effects ---

type stubTaskQueue struct {
	mu    sync.Mutex
	tasks []domain.Task
}

func (q *stubTaskQueue) Submit(task domain.Task) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
}

func (q *stubTaskQueue) ofKind(kind domain.TaskKind) []domain.Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []domain.Task
	for _, t := range q.tasks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

type sentMail struct {
	kind string
	to   string
	arg  string
}

type stubMailer struct {
	mu   sync.Mutex
	sent []sentMail
	// fail decides the outcome of a delivery; nil means success.
	fail func(kind, to string) error
}

func (m *stubMailer) send(kind, to, arg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		if err := m.fail(kind, to); err != nil {
			return err
		}
	}
	m.sent = append(m.sent, sentMail{kind: kind, to: to, arg: arg})
	return nil
}

func (m *stubMailer) SendWelcome(_ context.Context, to, fullName string) error {
	return m.send("welcome", to, fullName)
}

func (m *stubMailer) SendPasswordReset(_ context.Context, to, _ string, resetURL string) error {
	return m.send("reset", to, resetURL)
}

func (m *stubMailer) SendFollowup(_ context.Context, to, username string) error {
	return m.send("followup", to, username)
}

type stubImageStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (s *stubImageStore) Save(_ context.Context, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	path := fmt.Sprintf("/uploads/courses/img-%d.png", len(s.saved)+1)
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubImageStore) Remove(publicPath string) error {
	s.removed = append(s.removed, publicPath)
	return nil
}
