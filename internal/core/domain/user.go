package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// Column bounds of the users table, in characters.
const (
	MaxUsernameLen = 50
	MaxEmailLen    = 255
	MaxGenderLen   = 20
)

// User is a learner account.
type User struct {
	ID                uint       `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Role              string     `json:"role"`
	Gender            string     `json:"gender,omitempty"`
	ResetToken        string     `json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ResetTokenValid reports whether token matches and has not expired at now.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetToken == "" || u.ResetToken != token || u.ResetTokenExpires == nil {
		return false
	}
	return u.ResetTokenExpires.After(now)
}

// Admin is a back-office principal. Admins never self-register.
type Admin struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
