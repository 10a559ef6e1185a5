package ports

import (
	"context"
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// UserRepository persists learner accounts.
type UserRepository interface {
	// Create inserts user. Unique violations surface as ErrDuplicateEmail or ErrUsernameTaken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
	// FindByIDForUpdate locks the user row until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uint) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByResetToken returns the user holding token only while it is unexpired at now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]domain.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailTakenByOther reports whether email belongs to an account other than userID.
	EmailTakenByOther(ctx context.Context, email string, userID uint) (bool, error)
	UsernameTakenByOther(ctx context.Context, username string, userID uint) (bool, error)
	// Update writes the mutable columns of user.
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, filter ListUsersFilter) ([]domain.User, int64, error)
	Delete(ctx context.Context, id uint) error
}

// ListUsersFilter carries the admin user listing query.
type ListUsersFilter struct {
	Search string // optional: case-insensitive match on username or email
	Page   int    // 1-based
	Limit  int
}

// AdminRepository persists back-office principals.
type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
}

// CourseRepository persists the catalog.
type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, course *domain.Course) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*domain.Course, error)
	// List returns every course, newest first.
	List(ctx context.Context) ([]domain.Course, error)
}

// EnrollmentRepository links users and courses.
type EnrollmentRepository interface {
	// Create fails with ErrAlreadyEnrolled when (UserID, CourseID) already exists.
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	// Reactivate resets an existing cancelled or completed (UserID, CourseID)
	// row to enrolled with zero progress and loads it into enrollment. An
	// already active row yields ErrAlreadyEnrolled.
	Reactivate(ctx context.Context, enrollment *domain.Enrollment) error
	ListByUser(ctx context.Context, userID uint) ([]domain.EnrolledCourse, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

// PaymentRepository reads and purges payment rows.
type PaymentRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.Payment, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

// ActivityRepository appends to the audit log.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) error
	// CreateForUser inserts activity only while userID exists, returning
	// ErrUserNotFound otherwise. It serializes with a concurrent user deletion.
	CreateForUser(ctx context.Context, userID uint, activity *domain.Activity) error
	// DeleteByUser removes entries whose metadata userId equals userID.
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
}

// MeetingRepository persists calendar entries.
type MeetingRepository interface {
	// List returns meetings ordered by start. When from and to are both set only
	// meetings starting within [from, to] are returned.
	List(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error)
	FindByID(ctx context.Context, id uint) (*domain.Meeting, error)
	Create(ctx context.Context, meeting *domain.Meeting) error
	Update(ctx context.Context, meeting *domain.Meeting) error
	Delete(ctx context.Context, id uint) error
}

// TxRepositories exposes repositories bound to one transaction.
type TxRepositories interface {
	Users() UserRepository
	Enrollments() EnrollmentRepository
	Payments() PaymentRepository
	Activities() ActivityRepository
}

// Store runs fn atomically. Any error returned by fn rolls the transaction back.
type Store interface {
	WithTransaction(ctx context.Context, fn func(tx TxRepositories) error) error
}
