package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=post_repository.go -destination=post_repository_mock.go -package=domain

// ListFilter narrows ListPosts results. Zero values mean "no filter".
type ListFilter struct {
	Status   Status
	Platform string
	Limit    int
}

// PostRepository is the durable store of postable items. Backed by a
// document-store-like collaborator; every call is a network round trip
// and may fail transiently.
type PostRepository interface {
	SavePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context, filter ListFilter) ([]*Post, error)

	// CountPublishedWithScore counts published posts carrying an
	// engagement score. Drives the default/adaptive mode switch.
	CountPublishedWithScore(ctx context.Context) (int, error)

	// FindScheduledInRange returns scheduled posts with a scheduling
	// instant inside [start, end].
	FindScheduledInRange(ctx context.Context, start, end time.Time) ([]*Post, error)

	// FindPublishedWithScore returns one sample per published+scored post.
	FindPublishedWithScore(ctx context.Context) ([]EngagementSample, error)

	// FindScheduledAt returns the scheduled post booked at exactly the
	// given instant, or ErrPostNotFound.
	FindScheduledAt(ctx context.Context, instant time.Time) (*Post, error)

	// WriteSchedule sets status=scheduled and the scheduling instant.
	// Returns false with a nil error when no post matches the id.
	WriteSchedule(ctx context.Context, id string, instant time.Time) (bool, error)

	// WriteEngagement overwrites the engagement score unconditionally.
	// Returns false with a nil error when no post matches the id.
	WriteEngagement(ctx context.Context, id string, score int) (bool, error)

	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)

	SetCalendarEvent(ctx context.Context, id, eventID, eventLink string) error
}

// LeadRepository stores leads for the contact-frequency policy.
type LeadRepository interface {
	SaveLeads(ctx context.Context, leads []*Lead) error
	ListLeads(ctx context.Context) ([]*Lead, error)

	// MarkContacted records a successful contact at the given instant.
	// Returns false with a nil error when no lead matches the id.
	MarkContacted(ctx context.Context, id string, at time.Time) (bool, error)
}
