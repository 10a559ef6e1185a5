package domain

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

const DefaultCurrency = "USD"

// Payment records money received, or owed, for a course.
type Payment struct {
	ID                uint           `json:"id"`
	UserID            uint           `json:"user_id"`
	CourseID          *uint          `json:"course_id,omitempty"`
	EnrollmentID      *uint          `json:"enrollment_id,omitempty"`
	Amount            float64        `json:"amount"`
	Currency          string         `json:"currency"`
	Status            PaymentStatus  `json:"status"`
	Provider          string         `json:"provider,omitempty"`
	ProviderPaymentID string         `json:"provider_payment_id,omitempty"`
	PaymentMethod     string         `json:"payment_method,omitempty"`
	ReceiptURL        string         `json:"receipt_url,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	RefundedAt        *time.Time     `json:"refunded_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}
