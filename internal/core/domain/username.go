package domain

import (
	"fmt"
	"strings"
)

const maxBaseUsernameLen = 40

// DeriveUsername builds a lowercase hyphenated slug from fullName, falling back
// to the local part of email and finally to "user".
func DeriveUsername(fullName, email string) string {
	local := email
	if i := strings.Index(email, "@"); i >= 0 {
		local = email[:i]
	}

	base := slugify(fullName)
	if base == "" {
		base = slugify(local)
	}
	if base == "" {
		base = "user"
	}
	return truncate(base, maxBaseUsernameLen)
}

// UsernameWithSuffix returns base-n limited to the maximum username length.
func UsernameWithSuffix(base string, n int) string {
	return truncate(fmt.Sprintf("%s-%d", base, n), MaxUsernameLen)
}

func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
