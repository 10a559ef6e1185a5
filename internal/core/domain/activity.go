package domain

import (
	"strconv"
	"time"
)

type ActivityType string

const (
	ActivityUserSignup    ActivityType = "user_signup"
	ActivityFollowupEmail ActivityType = "followup_email"
	ActivityCourseCreated ActivityType = "course_created"
	ActivityEnrollment    ActivityType = "enrollment"
	ActivityUserDeleted   ActivityType = "user_deleted"
)

// ActivityUserIDKey is the metadata key linking an activity to a user.
const ActivityUserIDKey = "userId"

// Activity is an append-only audit entry.
type Activity struct {
	ID          uint           `json:"id"`
	Type        ActivityType   `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// UserID returns the user the activity is linked to through its metadata.
func (a Activity) UserID() (uint, bool) {
	switch v := a.Metadata[ActivityUserIDKey].(type) {
	case uint:
		return v, true
	case int:
		return uint(v), v > 0
	case float64:
		return uint(v), v > 0
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		return uint(id), err == nil
	}
	return 0, false
}
