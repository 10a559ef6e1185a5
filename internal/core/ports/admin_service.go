package ports

import (
	"context"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// FollowupInput selects recipients. UserIDs win when both are set.
type FollowupInput struct {
	UserIDs    []uint
	UserEmails []string
}

// FollowupOutcome is the delivery result for one user.
type FollowupOutcome struct {
	UserID  uint
	Email   string
	Success bool
	Error   string
}

// FollowupResult summarizes a bulk send.
type FollowupResult struct {
	Results []FollowupOutcome
	Sent    int
	Failed  int
	Message string
}

// ListUsersResult is one page of users.
type ListUsersResult struct {
	Items      []domain.User
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// UserAdminService covers back-office user management.
type UserAdminService interface {
	SendFollowups(ctx context.Context, in FollowupInput) (*FollowupResult, error)
	DeleteUser(ctx context.Context, userID uint) error
	ListUsers(ctx context.Context, filter ListUsersFilter) (*ListUsersResult, error)
	UserPayments(ctx context.Context, userID uint) ([]domain.Payment, error)
}
