package domain

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a postable item.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished:
		return true
	}
	return false
}

// Post is a postable marketing item. Status normally moves draft ->
// scheduled -> published, but manual overrides in either direction are
// permitted, so no ordering is enforced here.
type Post struct {
	ID                 string
	Platform           string
	Content            string
	ImageURL           string
	BusinessName       string
	ProductDescription string
	TargetAudience     string
	Status             Status
	ScheduledFor       *time.Time
	EngagementScore    *int
	CalendarEventID    string
	CalendarEventLink  string
	CreatedAt          time.Time
}

func NewPost(platform, content string) *Post {
	return &Post{
		ID:        uuid.NewString(),
		Platform:  platform,
		Content:   content,
		Status:    StatusDraft,
		CreatedAt: time.Now().UTC(),
	}
}

// HasEngagement reports whether an engagement score has been recorded.
// A nil score means "no data yet" and is distinct from a score of zero.
func (p *Post) HasEngagement() bool {
	return p.EngagementScore != nil
}

func (p *Post) IsScheduled() bool {
	return p.Status == StatusScheduled && p.ScheduledFor != nil
}

// SlotKey floors a time to its containing half-hour slot in UTC.
// All scheduling math operates on these normalized instants.
func SlotKey(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), (t.Minute()/30)*30, 0, 0, time.UTC)
}

// EngagementSample is one published post's observed outcome, keyed by the
// instant it was scheduled for. A zero ScheduledFor marks a sample whose
// scheduling instant was never recorded; allocators skip those.
type EngagementSample struct {
	ScheduledFor time.Time
	Score        int
}
