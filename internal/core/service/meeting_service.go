package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
	"github.com/Goodness-MArcel/oasis/internal/core/ports"
)

// MeetingService manages the admin calendar.
type MeetingService struct {
	meetings ports.MeetingRepository
}

func NewMeetingService(meetings ports.MeetingRepository) *MeetingService {
	return &MeetingService{meetings: meetings}
}

// List filters by start only when both bounds are given.
func (s *MeetingService) List(ctx context.Context, from, to *time.Time) ([]domain.Meeting, error) {
	if from == nil || to == nil {
		from, to = nil, nil
	}
	meetings, err := s.meetings.List(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return meetings, nil
}

func (s *MeetingService) Create(ctx context.Context, in ports.CreateMeetingInput) (*domain.Meeting, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Start == nil {
		return nil, domain.NewValidationError("title and start are required")
	}

	m := &domain.Meeting{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Start:       in.Start.UTC(),
		End:         utcPtr(in.End),
		AllDay:      in.AllDay,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("create meeting: %w", err)
	}
	return m, nil
}

func (s *MeetingService) Update(ctx context.Context, id uint, in ports.UpdateMeetingInput) (*domain.Meeting, error) {
	m, err := s.meetings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domain.NewValidationError("title cannot be empty")
		}
		m.Title = title
	}
	if in.Description != nil {
		m.Description = strings.TrimSpace(*in.Description)
	}
	if in.Start != nil {
		m.Start = in.Start.UTC()
	}
	switch {
	case in.ClearEnd:
		m.End = nil
	case in.End != nil:
		m.End = utcPtr(in.End)
	}
	if in.AllDay != nil {
		m.AllDay = *in.AllDay
	}

	if err := s.meetings.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("update meeting: %w", err)
	}
	return m, nil
}

func (s *MeetingService) Delete(ctx context.Context, id uint) error {
	if _, err := s.meetings.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.meetings.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
