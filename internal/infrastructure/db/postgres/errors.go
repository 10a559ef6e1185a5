package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

const uniqueViolationCode = "23505"

// Constraint and index names from the schema migrations.
const (
	usersEmailIndex          = "users_email_lower_idx"
	usersUsernameKey         = "users_username_key"
	enrollmentsUserCourseKey = "enrollments_user_course_key"
)

// uniqueViolation returns the violated constraint when err is a Postgres
// unique violation.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// userConflict maps a unique violation on the users table to its domain
// error. emailErr differs between signup and profile update.
func userConflict(err, emailErr error) (error, bool) {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil, false
	}
	switch constraint {
	case usersUsernameKey:
		return domain.ErrUsernameTaken, true
	case usersEmailIndex:
		return emailErr, true
	}
	return nil, false
}
