package domain

import (
	"strconv"
	"strings"
	"time"
)

const MaxInstructorNameLength = 255

// Course is a catalog entry managed by admins.
type Course struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Category       string    `json:"category,omitempty"`
	Badge          string    `json:"badge,omitempty"`
	Image          string    `json:"image,omitempty"`
	Description    string    `json:"description,omitempty"`
	Lessons        int       `json:"lessons"`
	Enrolled       int       `json:"enrolled"`
	Progress       int       `json:"progress"`
	InstructorName string    `json:"instructor_name,omitempty"`
	Price          float64   `json:"price"`
	Duration       string    `json:"duration,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ParseCount reads a non-negative integer from free-form input. Anything that
// does not parse, or parses negative, yields 0.
func ParseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ParseProgress reads an integer percentage clamped to [0,100].
func ParseProgress(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return ClampPercent(n)
}

// ParsePrice reads a non-negative decimal amount rounded to cents.
func ParsePrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return float64(int64(f*100+0.5)) / 100
}

func ClampPercent(n int) int {
	switch {
	case n < 0:
		return 0
	case n > 100:
		return 100
	default:
		return n
	}
}
