package domain

// TaskKind names a background side effect.
type TaskKind string

const (
	TaskRecordActivity TaskKind = "activity"
	TaskWelcomeEmail   TaskKind = "welcome_email"
)

// Task is a best-effort side effect handed to the background worker.
// Tasks sharing a Key run in submission order.
type Task struct {
	ID       string
	Kind     TaskKind
	Key      string
	Activity *Activity
	Email    string
	Name     string
}
