package domain

import "time"

// StudySession marks a study interval the server is currently timing.
// The server owns accrual timing; StartedAt is recorded locally for
// display only and is never sent back.
type StudySession struct {
	StartedAt time.Time
}

// Elapsed returns the display-only duration since the session started.
func (s StudySession) Elapsed(now time.Time) time.Duration {
	if s.StartedAt.IsZero() || now.Before(s.StartedAt) {
		return 0
	}
	return now.Sub(s.StartedAt)
}
