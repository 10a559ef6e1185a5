package ports

import (
	"context"
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// CreateMeetingInput is a new calendar entry.
type CreateMeetingInput struct {
	Title       string
	Description string
	Start       *time.Time
	End         *time.Time
	AllDay      bool
}

// UpdateMeetingInput is a partial update; nil fields are left untouched.
type UpdateMeetingInput struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	ClearEnd    bool
	AllDay      *bool
}

// MeetingService is the admin calendar use case.
type MeetingService interface {
	List(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error)
	Create(ctx context.Context, in CreateMeetingInput) (*domain.Meeting, error)
	Update(ctx context.Context, id uint, in UpdateMeetingInput) (*domain.Meeting, error)
	Delete(ctx context.Context, id uint) error
}
