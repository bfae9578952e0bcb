package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
	"github.com/postpilot-labs/post-scheduling/internal/infra/calendar"
	"github.com/postpilot-labs/post-scheduling/internal/infra/publishqueue"
	"github.com/postpilot-labs/post-scheduling/internal/observability/metrics"
	"github.com/postpilot-labs/post-scheduling/internal/observability/tracing"
)

// SlotAllocator computes the next posting instant from repository state.
type SlotAllocator interface {
	NextSlot(ctx context.Context, now time.Time) (time.Time, error)
}

// Engine is the scheduling entry point. It switches between the default
// and adaptive allocators on a data-sufficiency threshold, commits
// schedule decisions, and feeds engagement outcomes back into the store.
type Engine struct {
	repo             domain.PostRepository
	defaultAlloc     SlotAllocator
	adaptiveAlloc    SlotAllocator
	cal              calendar.Calendar
	queue            publishqueue.PublishQueue
	recorder         domain.EngagementRecorder
	schedulerMetrics *metrics.SchedulerMetrics
	minScoredPosts   int
	calendarTimeout  time.Duration
}

func NewEngine(
	repo domain.PostRepository,
	defaultAlloc SlotAllocator,
	adaptiveAlloc SlotAllocator,
	cal calendar.Calendar,
	queue publishqueue.PublishQueue,
	recorder domain.EngagementRecorder,
	schedulerMetrics *metrics.SchedulerMetrics,
	minScoredPosts int,
	calendarTimeout time.Duration,
) *Engine {
	if calendarTimeout <= 0 {
		calendarTimeout = 10 * time.Second
	}
	return &Engine{
		repo:             repo,
		defaultAlloc:     defaultAlloc,
		adaptiveAlloc:    adaptiveAlloc,
		cal:              cal,
		queue:            queue,
		recorder:         recorder,
		schedulerMetrics: schedulerMetrics,
		minScoredPosts:   minScoredPosts,
		calendarTimeout:  calendarTimeout,
	}
}

// AllocateNextSlot returns a future UTC instant at which a new post
// should go out. It performs no writes of its own.
func (e *Engine) AllocateNextSlot(ctx context.Context, now time.Time) (time.Time, error) {
	instant, _, err := e.allocate(ctx, now)
	return instant, err
}

func (e *Engine) allocate(ctx context.Context, now time.Time) (instant time.Time, mode Mode, err error) {
	start := time.Now()

	ctx, span := tracing.StartAllocationSpan(ctx, now)
	defer func() {
		tracing.RecordAllocationResult(span, mode.String(), instant, err)
		span.End()
	}()

	scoredCount, err := e.repo.CountPublishedWithScore(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to count scored posts",
			slog.String("error", err.Error()),
		)
		return time.Time{}, "", fmt.Errorf("failed to count scored posts: %w", err)
	}

	mode = ModeDefault
	alloc := e.defaultAlloc
	if scoredCount >= e.minScoredPosts {
		mode = ModeAdaptive
		alloc = e.adaptiveAlloc
	}

	slog.DebugContext(ctx, "allocating next slot",
		slog.String("mode", mode.String()),
		slog.Int("scored_count", scoredCount),
		slog.Int("threshold", e.minScoredPosts),
	)

	instant, err = alloc.NextSlot(ctx, now.UTC())
	if err != nil {
		return time.Time{}, mode, err
	}

	if e.schedulerMetrics != nil {
		e.schedulerMetrics.RecordAllocation(ctx, mode.String(), time.Since(start))
	}

	return instant, mode, nil
}

// RecordEngagement attaches an engagement score to a published post,
// overwriting any prior value. Best-effort telemetry: it reports
// success as a boolean and never raises, even on repository failure.
func (e *Engine) RecordEngagement(ctx context.Context, postID string, score int) bool {
	if score < 0 {
		slog.WarnContext(ctx, "rejecting negative engagement score",
			slog.String("post_id", postID),
			slog.Int("score", score),
		)
		e.recordFeedbackMetric(ctx, "rejected")
		return false
	}

	updated, err := e.repo.WriteEngagement(ctx, postID, score)
	if err != nil {
		slog.WarnContext(ctx, "failed to write engagement score",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		e.recordFeedbackMetric(ctx, "error")
		return false
	}
	if !updated {
		slog.DebugContext(ctx, "engagement score targeted unknown post",
			slog.String("post_id", postID),
		)
		e.recordFeedbackMetric(ctx, "not_found")
		return false
	}

	e.exportEngagement(ctx, postID, score)
	e.recordFeedbackMetric(ctx, "recorded")
	return true
}

func (e *Engine) exportEngagement(ctx context.Context, postID string, score int) {
	if e.recorder == nil {
		return
	}

	record := domain.EngagementRecord{
		PostID:     postID,
		Score:      score,
		RecordedAt: time.Now().UTC(),
	}

	if post, err := e.repo.GetPost(ctx, postID); err == nil {
		record.Platform = post.Platform
		if post.ScheduledFor != nil {
			record.ScheduledFor = *post.ScheduledFor
		}
	}

	if err := e.recorder.RecordEngagement(ctx, record); err != nil {
		slog.WarnContext(ctx, "failed to export engagement record",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
	}
}

func (e *Engine) recordFeedbackMetric(ctx context.Context, result string) {
	if e.schedulerMetrics != nil {
		e.schedulerMetrics.RecordEngagementFeedback(ctx, result)
	}
}

// CommitSchedule allocates the next slot, writes it onto the named
// post, then mirrors the booking into the calendar and registers a
// publish dispatch. The mirror and dispatch are best-effort secondary
// outcomes; only allocation and the schedule write can fail the call.
func (e *Engine) CommitSchedule(ctx context.Context, postID string, now time.Time) (*CommitResult, error) {
	instant, mode, err := e.allocate(ctx, now)
	if err != nil {
		return nil, err
	}

	updated, err := e.repo.WriteSchedule(ctx, postID, instant)
	if err != nil {
		return nil, fmt.Errorf("failed to write schedule: %w", err)
	}
	if !updated {
		return nil, domain.ErrPostNotFound
	}

	slog.InfoContext(ctx, "schedule committed",
		slog.String("post_id", postID),
		slog.Time("scheduled_for", instant),
		slog.String("mode", mode.String()),
	)

	result := &CommitResult{
		PostID:       postID,
		ScheduledFor: instant,
		Mode:         mode,
	}

	post, err := e.repo.GetPost(ctx, postID)
	if err != nil {
		// The commit stands; only the secondary mirror lacks details.
		slog.WarnContext(ctx, "failed to reload post for calendar mirror",
			slog.String("post_id", postID),
			slog.String("error", err.Error()),
		)
		result.Calendar = CalendarMirrorOutcome{State: MirrorSkipped, Reason: "post details unavailable"}
		return result, nil
	}

	result.Calendar = e.mirrorToCalendar(ctx, post, instant)
	result.PublishTaskName = e.registerPublish(ctx, post, instant)

	return result, nil
}

func (e *Engine) mirrorToCalendar(ctx context.Context, post *domain.Post, instant time.Time) CalendarMirrorOutcome {
	ctx, span := tracing.StartCalendarMirrorSpan(ctx, post.ID)
	defer span.End()

	outcome := e.doMirror(ctx, post, instant)

	var mirrorErr error
	if outcome.State == MirrorFailed {
		mirrorErr = errors.New(outcome.Reason)
	}
	tracing.RecordCalendarMirrorResult(span, string(outcome.State), mirrorErr)

	if e.schedulerMetrics != nil {
		e.schedulerMetrics.RecordCalendarMirror(ctx, string(outcome.State))
	}
	return outcome
}

func (e *Engine) doMirror(ctx context.Context, post *domain.Post, instant time.Time) CalendarMirrorOutcome {
	if e.cal == nil {
		return CalendarMirrorOutcome{State: MirrorSkipped, Reason: "calendar not configured"}
	}

	mirrorCtx, cancel := context.WithTimeout(ctx, e.calendarTimeout)
	defer cancel()

	title := fmt.Sprintf("%s Post - %s", post.Platform, post.BusinessName)
	ref, err := e.cal.CreateEvent(mirrorCtx, calendar.EventInput{
		Title:       title,
		Description: post.Content,
		Start:       instant,
		Duration:    30 * time.Minute,
		Platform:    post.Platform,
		ImageURL:    post.ImageURL,
	})
	if err != nil {
		if errors.Is(err, calendar.ErrNotConfigured) {
			return CalendarMirrorOutcome{State: MirrorSkipped, Reason: "calendar not configured"}
		}
		slog.WarnContext(ctx, "calendar mirror failed",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()),
		)
		return CalendarMirrorOutcome{State: MirrorFailed, Reason: err.Error()}
	}

	if err := e.repo.SetCalendarEvent(ctx, post.ID, ref.ID, ref.Link); err != nil {
		slog.WarnContext(ctx, "failed to store calendar event reference",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()),
		)
	}

	return CalendarMirrorOutcome{
		State:     MirrorOK,
		EventID:   ref.ID,
		EventLink: ref.Link,
	}
}

func (e *Engine) registerPublish(ctx context.Context, post *domain.Post, instant time.Time) string {
	if e.queue == nil {
		return ""
	}

	resp, err := e.queue.RegisterPublish(ctx, &publishqueue.PublishTask{
		PostID:     post.ID,
		ScheduleAt: instant,
		Platform:   post.Platform,
		Content:    post.Content,
		ImageURL:   post.ImageURL,
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to register publish dispatch",
			slog.String("post_id", post.ID),
			slog.String("error", err.Error()),
		)
		return ""
	}

	slog.DebugContext(ctx, "publish dispatch registered",
		slog.String("post_id", post.ID),
		slog.String("task_name", resp.Name),
	)
	return resp.Name
}
