package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
	"github.com/postpilot-labs/post-scheduling/internal/infra/calendar"
	"github.com/postpilot-labs/post-scheduling/internal/infra/publishqueue"
)

type fakeRepo struct {
	domain.PostRepository

	scoredCount    int
	scoredCountErr error

	posts map[string]*domain.Post

	writeScheduleErr   error
	writeEngagementErr error

	engagement       map[string]int
	calendarEventIDs map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		posts:            make(map[string]*domain.Post),
		engagement:       make(map[string]int),
		calendarEventIDs: make(map[string]string),
	}
}

func (f *fakeRepo) CountPublishedWithScore(_ context.Context) (int, error) {
	if f.scoredCountErr != nil {
		return 0, f.scoredCountErr
	}
	return f.scoredCount, nil
}

func (f *fakeRepo) GetPost(_ context.Context, id string) (*domain.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	return post, nil
}

func (f *fakeRepo) WriteSchedule(_ context.Context, id string, instant time.Time) (bool, error) {
	if f.writeScheduleErr != nil {
		return false, f.writeScheduleErr
	}
	post, ok := f.posts[id]
	if !ok {
		return false, nil
	}
	post.Status = domain.StatusScheduled
	post.ScheduledFor = &instant
	return true, nil
}

func (f *fakeRepo) WriteEngagement(_ context.Context, id string, score int) (bool, error) {
	if f.writeEngagementErr != nil {
		return false, f.writeEngagementErr
	}
	if _, ok := f.posts[id]; !ok {
		return false, nil
	}
	f.engagement[id] = score
	return true, nil
}

func (f *fakeRepo) SetCalendarEvent(_ context.Context, id, eventID, _ string) error {
	f.calendarEventIDs[id] = eventID
	return nil
}

type fakeAllocator struct {
	slot   time.Time
	err    error
	called bool
}

func (f *fakeAllocator) NextSlot(_ context.Context, _ time.Time) (time.Time, error) {
	f.called = true
	if f.err != nil {
		return time.Time{}, f.err
	}
	return f.slot, nil
}

type fakeCalendar struct {
	ref    *calendar.EventRef
	err    error
	called bool
}

func (f *fakeCalendar) CreateEvent(_ context.Context, _ calendar.EventInput) (*calendar.EventRef, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.ref, nil
}

type fakeQueue struct {
	resp   *publishqueue.TaskResponse
	err    error
	called bool
}

func (f *fakeQueue) RegisterPublish(_ context.Context, _ *publishqueue.PublishTask) (*publishqueue.TaskResponse, error) {
	f.called = true
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func newTestEngine(repo *fakeRepo, def, adapt *fakeAllocator, cal *fakeCalendar, queue *fakeQueue) *Engine {
	var c calendar.Calendar
	if cal != nil {
		c = cal
	}
	var q publishqueue.PublishQueue
	if queue != nil {
		q = queue
	}
	return NewEngine(repo, def, adapt, c, q, nil, nil, 5, time.Second)
}

func TestEngine_AllocateNextSlot_BelowThresholdUsesDefault(t *testing.T) {
	repo := newFakeRepo()
	repo.scoredCount = 4

	def := &fakeAllocator{slot: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	adapt := &fakeAllocator{slot: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)}
	engine := newTestEngine(repo, def, adapt, nil, nil)

	got, err := engine.AllocateNextSlot(context.Background(), time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !def.called {
		t.Error("default allocator was not called")
	}
	if adapt.called {
		t.Error("adaptive allocator was called below threshold")
	}
	if !got.Equal(def.slot) {
		t.Errorf("AllocateNextSlot() = %v, want %v", got, def.slot)
	}
}

func TestEngine_AllocateNextSlot_AtThresholdUsesAdaptive(t *testing.T) {
	// The threshold is inclusive: exactly five scored posts switch modes.
	repo := newFakeRepo()
	repo.scoredCount = 5

	def := &fakeAllocator{slot: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
	adapt := &fakeAllocator{slot: time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)}
	engine := newTestEngine(repo, def, adapt, nil, nil)

	got, err := engine.AllocateNextSlot(context.Background(), time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !adapt.called {
		t.Error("adaptive allocator was not called at threshold")
	}
	if def.called {
		t.Error("default allocator was called at threshold")
	}
	if !got.Equal(adapt.slot) {
		t.Errorf("AllocateNextSlot() = %v, want %v", got, adapt.slot)
	}
}

func TestEngine_AllocateNextSlot_CountErrorFails(t *testing.T) {
	repo := newFakeRepo()
	repo.scoredCountErr = errors.New("connection refused")

	engine := newTestEngine(repo, &fakeAllocator{}, &fakeAllocator{}, nil, nil)

	_, err := engine.AllocateNextSlot(context.Background(), time.Now())
	if err == nil {
		t.Fatal("AllocateNextSlot() error = nil, want error")
	}
}

func TestEngine_RecordEngagement_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Status: domain.StatusPublished}

	engine := newTestEngine(repo, &fakeAllocator{}, &fakeAllocator{}, nil, nil)

	if !engine.RecordEngagement(context.Background(), "p1", 42) {
		t.Error("RecordEngagement() = false, want true")
	}
	if repo.engagement["p1"] != 42 {
		t.Errorf("stored score = %d, want 42", repo.engagement["p1"])
	}

	// Overwrites are allowed.
	if !engine.RecordEngagement(context.Background(), "p1", 77) {
		t.Error("second RecordEngagement() = false, want true")
	}
	if repo.engagement["p1"] != 77 {
		t.Errorf("stored score after overwrite = %d, want 77", repo.engagement["p1"])
	}
}

func TestEngine_RecordEngagement_UnknownPost(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), &fakeAllocator{}, &fakeAllocator{}, nil, nil)

	if engine.RecordEngagement(context.Background(), "missing", 42) {
		t.Error("RecordEngagement() = true for unknown post, want false")
	}
}

func TestEngine_RecordEngagement_NegativeScoreRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Status: domain.StatusPublished}

	engine := newTestEngine(repo, &fakeAllocator{}, &fakeAllocator{}, nil, nil)

	if engine.RecordEngagement(context.Background(), "p1", -1) {
		t.Error("RecordEngagement() = true for negative score, want false")
	}
	if _, ok := repo.engagement["p1"]; ok {
		t.Error("negative score was written to the repository")
	}
}

func TestEngine_RecordEngagement_RepositoryErrorSwallowed(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Status: domain.StatusPublished}
	repo.writeEngagementErr = errors.New("connection refused")

	engine := newTestEngine(repo, &fakeAllocator{}, &fakeAllocator{}, nil, nil)

	if engine.RecordEngagement(context.Background(), "p1", 42) {
		t.Error("RecordEngagement() = true on repository error, want false")
	}
}

func TestEngine_CommitSchedule_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Platform: "instagram", Content: "spring launch"}

	slot := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	cal := &fakeCalendar{ref: &calendar.EventRef{ID: "evt-1", Link: "https://calendar/evt-1"}}
	queue := &fakeQueue{resp: &publishqueue.TaskResponse{Name: "task-1"}}

	engine := newTestEngine(repo, &fakeAllocator{slot: slot}, &fakeAllocator{}, cal, queue)

	result, err := engine.CommitSchedule(context.Background(), "p1", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.ScheduledFor.Equal(slot) {
		t.Errorf("ScheduledFor = %v, want %v", result.ScheduledFor, slot)
	}
	if result.Mode != ModeDefault {
		t.Errorf("Mode = %v, want %v", result.Mode, ModeDefault)
	}
	if result.Calendar.State != MirrorOK {
		t.Errorf("Calendar.State = %v, want %v", result.Calendar.State, MirrorOK)
	}
	if result.Calendar.EventID != "evt-1" {
		t.Errorf("Calendar.EventID = %q, want %q", result.Calendar.EventID, "evt-1")
	}
	if repo.calendarEventIDs["p1"] != "evt-1" {
		t.Error("calendar event reference was not stored on the post")
	}
	if result.PublishTaskName != "task-1" {
		t.Errorf("PublishTaskName = %q, want %q", result.PublishTaskName, "task-1")
	}
	if repo.posts["p1"].Status != domain.StatusScheduled {
		t.Errorf("post status = %v, want %v", repo.posts["p1"].Status, domain.StatusScheduled)
	}
}

func TestEngine_CommitSchedule_UnknownPost(t *testing.T) {
	engine := newTestEngine(newFakeRepo(), &fakeAllocator{slot: time.Now().Add(time.Hour)}, &fakeAllocator{}, nil, nil)

	_, err := engine.CommitSchedule(context.Background(), "missing", time.Now())
	if !errors.Is(err, domain.ErrPostNotFound) {
		t.Errorf("CommitSchedule() error = %v, want %v", err, domain.ErrPostNotFound)
	}
}

func TestEngine_CommitSchedule_CalendarNotConfiguredSkipsMirror(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Platform: "twitter", Content: "hello"}

	cal := &fakeCalendar{err: calendar.ErrNotConfigured}
	engine := newTestEngine(repo, &fakeAllocator{slot: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}, &fakeAllocator{}, cal, nil)

	result, err := engine.CommitSchedule(context.Background(), "p1", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Calendar.State != MirrorSkipped {
		t.Errorf("Calendar.State = %v, want %v", result.Calendar.State, MirrorSkipped)
	}
}

func TestEngine_CommitSchedule_CalendarFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Platform: "twitter", Content: "hello"}

	cal := &fakeCalendar{err: errors.New("calendar API unavailable")}
	engine := newTestEngine(repo, &fakeAllocator{slot: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}, &fakeAllocator{}, cal, nil)

	result, err := engine.CommitSchedule(context.Background(), "p1", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("CommitSchedule() error = %v, want nil (mirror is best-effort)", err)
	}

	if result.Calendar.State != MirrorFailed {
		t.Errorf("Calendar.State = %v, want %v", result.Calendar.State, MirrorFailed)
	}
	if result.Calendar.Reason == "" {
		t.Error("Calendar.Reason is empty for a failed mirror")
	}
	if repo.posts["p1"].Status != domain.StatusScheduled {
		t.Error("schedule commit was not preserved after mirror failure")
	}
}

func TestEngine_CommitSchedule_QueueFailureIsNonFatal(t *testing.T) {
	repo := newFakeRepo()
	repo.posts["p1"] = &domain.Post{ID: "p1", Platform: "twitter", Content: "hello"}

	queue := &fakeQueue{err: errors.New("dispatcher unavailable")}
	engine := newTestEngine(repo, &fakeAllocator{slot: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}, &fakeAllocator{}, nil, queue)

	result, err := engine.CommitSchedule(context.Background(), "p1", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !queue.called {
		t.Error("publish queue was not called")
	}
	if result.PublishTaskName != "" {
		t.Errorf("PublishTaskName = %q, want empty after queue failure", result.PublishTaskName)
	}
}
