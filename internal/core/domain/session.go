package domain

// SessionClaims identify the principal behind a session token.
type SessionClaims struct {
	UserID   uint
	Email    string
	Username string
	Role     string
	Gender   string
}

// ClaimsForUser builds the claims embedded in a learner token.
func ClaimsForUser(u *User) SessionClaims {
	return SessionClaims{
		UserID:   u.ID,
		Email:    u.Email,
		Username: u.Username,
		Role:     u.Role,
		Gender:   u.Gender,
	}
}
