package postgres

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

type userRecord struct {
	ID                uint `gorm:"primaryKey"`
	Username          string
	Email             string
	PasswordHash      string
	Role              string
	Gender            string
	ResetToken        *string
	ResetTokenExpires *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (userRecord) TableName() string { return "users" }

func newUserRecord(u *domain.User) *userRecord {
	rec := &userRecord{
		ID:                u.ID,
		Username:          u.Username,
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		Role:              u.Role,
		Gender:            u.Gender,
		ResetTokenExpires: u.ResetTokenExpires,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
	if u.ResetToken != "" {
		token := u.ResetToken
		rec.ResetToken = &token
	}
	return rec
}

func (r *userRecord) toDomain() *domain.User {
	u := &domain.User{
		ID:                r.ID,
		Username:          r.Username,
		Email:             r.Email,
		PasswordHash:      r.PasswordHash,
		Role:              r.Role,
		Gender:            r.Gender,
		ResetTokenExpires: r.ResetTokenExpires,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.ResetToken != nil {
		u.ResetToken = *r.ResetToken
	}
	return u
}

type adminRecord struct {
	ID           uint `gorm:"primaryKey"`
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (adminRecord) TableName() string { return "admins" }

func (r *adminRecord) toDomain() *domain.Admin {
	return &domain.Admin{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type courseRecord struct {
	ID             uint `gorm:"primaryKey"`
	Title          string
	Category       string
	Badge          string
	Image          string
	Description    string
	Lessons        int
	Enrolled       int
	Progress       int
	InstructorName string
	Price          float64
	Duration       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (courseRecord) TableName() string { return "courses" }

func newCourseRecord(c *domain.Course) *courseRecord {
	return &courseRecord{
		ID:             c.ID,
		Title:          c.Title,
		Category:       c.Category,
		Badge:          c.Badge,
		Image:          c.Image,
		Description:    c.Description,
		Lessons:        c.Lessons,
		Enrolled:       c.Enrolled,
		Progress:       c.Progress,
		InstructorName: c.InstructorName,
		Price:          c.Price,
		Duration:       c.Duration,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func (r *courseRecord) toDomain() domain.Course {
	return domain.Course{
		ID:             r.ID,
		Title:          r.Title,
		Category:       r.Category,
		Badge:          r.Badge,
		Image:          r.Image,
		Description:    r.Description,
		Lessons:        r.Lessons,
		Enrolled:       r.Enrolled,
		Progress:       r.Progress,
		InstructorName: r.InstructorName,
		Price:          r.Price,
		Duration:       r.Duration,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

type enrollmentRecord struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint
	CourseID  uint
	Status    string
	Progress  float64
	Course    courseRecord `gorm:"foreignKey:CourseID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (enrollmentRecord) TableName() string { return "enrollments" }

func (r *enrollmentRecord) toDomain() domain.Enrollment {
	return domain.Enrollment{
		ID:        r.ID,
		UserID:    r.UserID,
		CourseID:  r.CourseID,
		Status:    domain.EnrollmentStatus(r.Status),
		Progress:  r.Progress,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type paymentRecord struct {
	ID                uint `gorm:"primaryKey"`
	UserID            uint
	CourseID          *uint
	EnrollmentID      *uint
	Amount            float64
	Currency          string
	Status            string
	Provider          string
	ProviderPaymentID string
	PaymentMethod     string
	ReceiptURL        string `gorm:"column:receipt_url"`
	Metadata          datatypes.JSONMap
	RefundedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (paymentRecord) TableName() string { return "payments" }

func (r *paymentRecord) toDomain() domain.Payment {
	return domain.Payment{
		ID:                r.ID,
		UserID:            r.UserID,
		CourseID:          r.CourseID,
		EnrollmentID:      r.EnrollmentID,
		Amount:            r.Amount,
		Currency:          r.Currency,
		Status:            domain.PaymentStatus(r.Status),
		Provider:          r.Provider,
		ProviderPaymentID: r.ProviderPaymentID,
		PaymentMethod:     r.PaymentMethod,
		ReceiptURL:        r.ReceiptURL,
		Metadata:          map[string]any(r.Metadata),
		RefundedAt:        r.RefundedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

type activityRecord struct {
	ID          uint `gorm:"primaryKey"`
	Type        string
	Description string
	Metadata    datatypes.JSONMap
	CreatedAt   time.Time
}

func (activityRecord) TableName() string { return "activities" }

type meetingRecord struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Description string
	Start       time.Time  `gorm:"column:start_at"`
	End         *time.Time `gorm:"column:end_at"`
	AllDay      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (meetingRecord) TableName() string { return "meetings" }

func newMeetingRecord(m *domain.Meeting) *meetingRecord {
	return &meetingRecord{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Start:       m.Start,
		End:         m.End,
		AllDay:      m.AllDay,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *meetingRecord) toDomain() domain.Meeting {
	return domain.Meeting{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Start:       r.Start,
		End:         r.End,
		AllDay:      r.AllDay,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
