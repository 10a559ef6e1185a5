package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// TaskService executes best-effort side effects dequeued by the worker pool.
type TaskService struct {
	activities ports.ActivityRepository
	mailer     ports.Mailer
	log        zerolog.Logger
}

func NewTaskService(activities ports.ActivityRepository, mailer ports.Mailer, log zerolog.Logger) *TaskService {
	return &TaskService{activities: activities, mailer: mailer, log: log.With().Str("component", "tasks").Logger()}
}

// Process runs task once. Errors are returned to the caller's retry policy.
func (s *TaskService) Process(ctx context.Context, task domain.Task) error {
	switch task.Kind {
	case domain.TaskRecordActivity:
		if task.Activity == nil {
			return fmt.Errorf("task %s: missing activity", task.ID)
		}
		activity := *task.Activity
		userID, linked := activity.UserID()
		if !linked {
			if err := s.activities.Create(ctx, &activity); err != nil {
				return fmt.Errorf("record %s activity: %w", activity.Type, err)
			}
			return nil
		}
		err := s.activities.CreateForUser(ctx, userID, &activity)
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug().Uint("user_id", userID).Str("type", string(activity.Type)).Msg("user gone, activity dropped")
			return nil
		}
		if err != nil {
			return fmt.Errorf("record %s activity: %w", activity.Type, err)
		}
		return nil

	case domain.TaskWelcomeEmail:
		if err := s.mailer.SendWelcome(ctx, task.Email, task.Name); err != nil {
			return fmt.Errorf("welcome email: %w", err)
		}
		s.log.Debug().Str("to", task.Email).Msg("welcome email sent")
		return nil

	default:
		return fmt.Errorf("task %s: unknown kind %q", task.ID, task.Kind)
	}
}

func newActivityTask(key string, activity domain.Activity) domain.Task {
	return domain.Task{
		ID:       uuid.NewString(),
		Kind:     domain.TaskRecordActivity,
		Key:      key,
		Activity: &activity,
	}
}

func newWelcomeTask(email, fullName string) domain.Task {
	return domain.Task{
		ID:    uuid.NewString(),
		Kind:  domain.TaskWelcomeEmail,
		Key:   email,
		Email: email,
		Name:  fullName,
	}
}
