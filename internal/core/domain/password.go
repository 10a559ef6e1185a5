package domain

import (
	"net/mail"
	"unicode/utf8"
)

const MinPasswordLength = 8

// StrongPassword requires MinPasswordLength characters including a letter, a
// digit and a character that is neither.
func StrongPassword(p string) bool {
	if len([]rune(p)) < MinPasswordLength {
		return false
	}
	var letter, digit, special bool
	for _, r := range p {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			special = true
		}
	}
	return letter && digit && special
}

// ValidEmail reports whether s is a bare RFC 5322 address.
func ValidEmail(s string) bool {
	if utf8.RuneCountInString(s) > MaxEmailLen {
		return false
	}
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
