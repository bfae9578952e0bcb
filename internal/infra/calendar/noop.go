package calendar

import "context"

type noopCalendar struct{}

func NewNoop() Calendar {
	return &noopCalendar{}
}

func (n *noopCalendar) CreateEvent(_ context.Context, _ EventInput) (*EventRef, error) {
	return nil, ErrNotConfigured
}
