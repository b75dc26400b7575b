// Package queue defines the account lifecycle events exchanged over the
// message broker and the background consumer that records them.
package queue

// Event types published to the account.events queue.
const (
	EventUserRegistered  = "user.registered"
	EventUserVerified    = "user.verified"
	EventPasswordReset   = "password.reset"
	EventRecoveryStarted = "recovery.started"
)

// AccountEvent is published after an account lifecycle transition has been
// persisted. It carries enough for downstream consumers to log or notify
// without querying the primary database.
type AccountEvent struct {
	Type       string `json:"type"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	OccurredAt string `json:"occurred_at"`
}
