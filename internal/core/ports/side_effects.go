package ports

import (
	"context"
	"io"

	"github.com/Goodness-MArcel/oasis/internal/core/domain"
)

// TaskQueue accepts best-effort side effects. Submit never blocks the caller.
type TaskQueue interface {
	Submit(task domain.Task)
}

// TaskProcessor executes a single side effect.
type TaskProcessor interface {
	Process(ctx context.Context, task domain.Task) error
}

// Mailer delivers the platform's transactional emails. Implementations return
// domain.ErrMailNotConfigured when no transport is configured.
type Mailer interface {
	SendWelcome(ctx context.Context, to, fullName string) error
	SendPasswordReset(ctx context.Context, to, username, resetURL string) error
	SendFollowup(ctx context.Context, to, username string) error
}

// ImageStore keeps uploaded course images.
type ImageStore interface {
	// Save validates, normalizes and stores an image, returning its public path.
	Save(ctx context.Context, r io.Reader) (string, error)
	// Remove deletes the file behind a public path. Missing files are not an error.
	Remove(publicPath string) error
}
