package scheduler

import "time"

// Mode identifies which allocator produced an instant.
type Mode string

const (
	ModeDefault  Mode = "default"
	ModeAdaptive Mode = "adaptive"
)

func (m Mode) String() string {
	return string(m)
}

// MirrorState classifies the calendar mirror attempt attached to a
// scheduling commit.
type MirrorState string

const (
	MirrorOK      MirrorState = "ok"
	MirrorSkipped MirrorState = "skipped"
	MirrorFailed  MirrorState = "failed"
)

// CalendarMirrorOutcome is the secondary, non-blocking result of the
// best-effort calendar mirror. A failed mirror never invalidates the
// scheduling commit it accompanies.
type CalendarMirrorOutcome struct {
	State     MirrorState `json:"state"`
	Reason    string      `json:"reason,omitempty"`
	EventID   string      `json:"event_id,omitempty"`
	EventLink string      `json:"event_link,omitempty"`
}

type CommitResult struct {
	PostID          string                `json:"post_id"`
	ScheduledFor    time.Time             `json:"scheduled_for"`
	Mode            Mode                  `json:"mode"`
	Calendar        CalendarMirrorOutcome `json:"calendar"`
	PublishTaskName string                `json:"publish_task_name,omitempty"`
}
