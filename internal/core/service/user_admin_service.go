package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

const (
	defaultUsersPage  = 1
	defaultUsersLimit = 20
	maxUsersLimit     = 100
)

// UserAdminService implements back-office user management.
type UserAdminService struct {
	users    ports.UserRepository
	payments ports.PaymentRepository
	store    ports.Store
	mailer   ports.Mailer
	tasks    ports.TaskQueue
	log      zerolog.Logger
}

func NewUserAdminService(
	users ports.UserRepository,
	payments ports.PaymentRepository,
	store ports.Store,
	mailer ports.Mailer,
	tasks ports.TaskQueue,
	log zerolog.Logger,
) *UserAdminService {
	return &UserAdminService{
		users:    users,
		payments: payments,
		store:    store,
		mailer:   mailer,
		tasks:    tasks,
		log:      log.With().Str("component", "user_admin").Logger(),
	}
}

// SendFollowups mails every selected user independently; one failed delivery
// never stops the rest.
func (s *UserAdminService) SendFollowups(ctx context.Context, in ports.FollowupInput) (*ports.FollowupResult, error) {
	users, err := s.resolveRecipients(ctx, in)
	if err != nil {
		return nil, err
	}

	res := &ports.FollowupResult{Results: make([]ports.FollowupOutcome, 0, len(users))}
	for _, u := range users {
		outcome := ports.FollowupOutcome{UserID: u.ID, Email: u.Email}
		if err := s.mailer.SendFollowup(ctx, u.Email, u.Username); err != nil {
			s.log.Warn().Err(err).Uint("user_id", u.ID).Msg("follow-up email failed")
			outcome.Error = err.Error()
			res.Failed++
		} else {
			outcome.Success = true
			res.Sent++
			s.tasks.Submit(newActivityTask(fmt.Sprintf("user:%d", u.ID), domain.Activity{
				Type:        domain.ActivityFollowupEmail,
				Description: fmt.Sprintf("Follow-up email sent to %s (%s)", u.Username, u.Email),
				Metadata: map[string]any{
					domain.ActivityUserIDKey: u.ID,
					"email":                  u.Email,
				},
			}))
		}
		res.Results = append(res.Results, outcome)
	}

	if len(users) > 1 {
		s.tasks.Submit(newActivityTask("followup:bulk", domain.Activity{
			Type:        domain.ActivityFollowupEmail,
			Description: fmt.Sprintf("Bulk follow-up: %d sent, %d failed", res.Sent, res.Failed),
			Metadata: map[string]any{
				"targeted": len(users),
				"success":  res.Sent,
				"failed":   res.Failed,
			},
		}))
	}

	res.Message = fmt.Sprintf("Sent %d of %d follow-up emails", res.Sent, len(users))
	return res, nil
}

func (s *UserAdminService) resolveRecipients(ctx context.Context, in ports.FollowupInput) ([]domain.User, error) {
	switch {
	case len(in.UserIDs) > 0:
		users, err := s.users.FindByIDs(ctx, in.UserIDs)
		if err != nil {
			return nil, fmt.Errorf("resolve recipients: %w", err)
		}
		return users, nil
	case len(in.UserEmails) > 0:
		emails := make([]string, 0, len(in.UserEmails))
		for _, e := range in.UserEmails {
			if e = strings.TrimSpace(e); e != "" {
				emails = append(emails, e)
			}
		}
		if len(emails) == 0 {
			return nil, domain.NewValidationError("userIds or userEmails is required")
		}
		users, err := s.users.FindByEmails(ctx, emails)
		if err != nil {
			return nil, fmt.Errorf("resolve recipients: %w", err)
		}
		return users, nil
	default:
		return nil, domain.NewValidationError("userIds or userEmails is required")
	}
}

// DeleteUser removes a user and everything hanging off it in one transaction,
// then records a user_deleted activity inside the same transaction.
func (s *UserAdminService) DeleteUser(ctx context.Context, userID uint) error {
	var deleted *domain.User
	err := s.store.WithTransaction(ctx, func(tx ports.TxRepositories) error {
		// Concurrent CreateForUser calls for this user block on this lock
		// until the transaction ends.
		user, err := tx.Users().FindByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		enrollments, err := tx.Enrollments().DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete enrollments: %w", err)
		}
		payments, err := tx.Payments().DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete payments: %w", err)
		}
		activities, err := tx.Activities().DeleteByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("delete activities: %w", err)
		}
		if err := tx.Users().Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user row: %w", err)
		}
		deleted = user

		return tx.Activities().Create(ctx, &domain.Activity{
			Type:        domain.ActivityUserDeleted,
			Description: fmt.Sprintf("User %s (%s) deleted", user.Username, user.Email),
			Metadata: map[string]any{
				"deletedUserId":      user.ID,
				"username":           user.Username,
				"email":              user.Email,
				"enrollmentsRemoved": enrollments,
				"paymentsRemoved":    payments,
				"activitiesRemoved":  activities,
			},
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		s.log.Error().Err(err).Uint("user_id", userID).Msg("cascading user deletion rolled back")
		return fmt.Errorf("%w: %v", domain.ErrDeletionFailed, err)
	}

	s.log.Info().Uint("user_id", userID).Str("email", deleted.Email).Msg("user deleted")
	return nil
}

func (s *UserAdminService) ListUsers(ctx context.Context, filter ports.ListUsersFilter) (*ports.ListUsersResult, error) {
	if filter.Page < 1 {
		filter.Page = defaultUsersPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultUsersLimit
	}
	if filter.Limit > maxUsersLimit {
		filter.Limit = maxUsersLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListUsersResult{
		Items:      users,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *UserAdminService) UserPayments(ctx context.Context, userID uint) ([]domain.Payment, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}
