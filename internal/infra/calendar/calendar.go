package calendar

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=calendar.go -destination=calendar_mock.go -package=calendar

// ErrNotConfigured marks a mirror attempt against a calendar that was
// never set up. Callers treat it as a skip, not a failure.
var ErrNotConfigured = errors.New("calendar not configured")

type EventInput struct {
	Title       string
	Description string
	Start       time.Time
	Duration    time.Duration
	Platform    string
	ImageURL    string
}

type EventRef struct {
	ID   string
	Link string
}

// Calendar mirrors scheduling decisions into an external calendar.
// Mirroring is best-effort: no caller may let a calendar error abort a
// scheduling commit.
type Calendar interface {
	CreateEvent(ctx context.Context, input EventInput) (*EventRef, error)
}
