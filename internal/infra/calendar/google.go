package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const defaultEventDuration = 30 * time.Minute

type googleCalendar struct {
	events     *gcal.EventsService
	calendarID string
	timeZone   string
}

// New builds the Google Calendar mirror from config. When mirroring is
// disabled or no service-account file is configured it returns the noop
// implementation instead of failing startup.
func New(ctx context.Context, cfg *Config) (Calendar, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "calendar mirroring disabled")
		return NewNoop(), nil
	}

	if cfg.CredentialsFile == "" {
		slog.WarnContext(ctx, "GOOGLE_SERVICE_ACCOUNT_FILE not set, calendar mirroring disabled")
		return NewNoop(), nil
	}

	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcal.CalendarScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}

	slog.InfoContext(ctx, "calendar mirror initialized",
		slog.String("calendar_id", cfg.CalendarID),
		slog.String("time_zone", cfg.TimeZone),
	)

	return &googleCalendar{
		events:     svc.Events,
		calendarID: cfg.CalendarID,
		timeZone:   cfg.TimeZone,
	}, nil
}

func (c *googleCalendar) CreateEvent(ctx context.Context, input EventInput) (*EventRef, error) {
	duration := input.Duration
	if duration <= 0 {
		duration = defaultEventDuration
	}

	description := fmt.Sprintf("Platform: %s\n\n%s", input.Platform, input.Description)
	if input.ImageURL != "" {
		description += fmt.Sprintf("\n\nImage: %s", input.ImageURL)
	}

	event := &gcal.Event{
		Summary:     input.Title,
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: input.Start.Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: input.Start.Add(duration).Format(time.RFC3339),
			TimeZone: c.timeZone,
		},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "popup", Minutes: 30},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := c.events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to insert calendar event: %w", err)
	}

	slog.DebugContext(ctx, "calendar event created",
		slog.String("event_id", created.Id),
		slog.String("event_link", created.HtmlLink),
	)

	return &EventRef{
		ID:   created.Id,
		Link: created.HtmlLink,
	}, nil
}
