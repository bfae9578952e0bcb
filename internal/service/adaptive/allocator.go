package adaptive

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
	"github.com/postpilot-labs/post-scheduling/internal/observability/metrics"
)

const collisionShift = 30 * time.Minute

// Fallback is the allocator used when no usable engagement history
// exists despite the threshold check passing (e.g. every sample is
// missing its scheduling instant).
type Fallback interface {
	NextSlot(ctx context.Context, now time.Time) (time.Time, error)
}

// Allocator biases scheduling toward the hour of day with the highest
// mean engagement. Deliberately a greedy single-feature optimizer: the
// value of adaptivity here is directional, not a full optimization
// problem.
type Allocator struct {
	repo             domain.PostRepository
	fallback         Fallback
	schedulerMetrics *metrics.SchedulerMetrics
}

// NewAllocator builds the adaptive allocator. schedulerMetrics may be
// nil.
func NewAllocator(repo domain.PostRepository, fallback Fallback, schedulerMetrics *metrics.SchedulerMetrics) *Allocator {
	return &Allocator{
		repo:             repo,
		fallback:         fallback,
		schedulerMetrics: schedulerMetrics,
	}
}

type hourStat struct {
	sum   int
	count int
}

func (h hourStat) mean() float64 {
	return float64(h.sum) / float64(h.count)
}

// NextSlot returns today (or tomorrow) at the historically
// best-performing hour, shifted once by 30 minutes when the exact
// instant is already booked. A shifted slot that is itself booked is
// returned anyway; the single shift is intentional.
func (a *Allocator) NextSlot(ctx context.Context, now time.Time) (time.Time, error) {
	now = now.UTC()

	samples, err := a.repo.FindPublishedWithScore(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load engagement samples",
			slog.String("error", err.Error()),
		)
		return time.Time{}, err
	}

	bestHour, ok := bestPerformingHour(samples)
	if !ok {
		slog.InfoContext(ctx, "no usable engagement history, degrading to default allocator",
			slog.Int("sample_count", len(samples)),
		)
		return a.fallback.NextSlot(ctx, now)
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), bestHour, 0, 0, 0, time.UTC)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}

	existing, err := a.repo.FindScheduledAt(ctx, candidate)
	if err != nil {
		if errors.Is(err, domain.ErrPostNotFound) {
			slog.DebugContext(ctx, "adaptive slot selected",
				slog.Int("best_hour", bestHour),
				slog.Time("slot", candidate),
			)
			return candidate, nil
		}
		return time.Time{}, err
	}

	if existing != nil {
		shifted := candidate.Add(collisionShift)
		slog.InfoContext(ctx, "best-hour slot occupied, shifting",
			slog.Time("slot", candidate),
			slog.Time("shifted", shifted),
		)
		if a.schedulerMetrics != nil {
			a.schedulerMetrics.RecordAdaptiveShift(ctx)
		}
		return shifted, nil
	}

	return candidate, nil
}

// bestPerformingHour ranks hours of day by mean engagement, descending.
// Ties go to the hour with more samples, then to the earlier hour.
// Samples without a scheduling instant are skipped; ok is false when
// nothing remains.
func bestPerformingHour(samples []domain.EngagementSample) (int, bool) {
	var stats [24]hourStat

	for _, sample := range samples {
		if sample.ScheduledFor.IsZero() {
			continue
		}
		hour := sample.ScheduledFor.UTC().Hour()
		stats[hour].sum += sample.Score
		stats[hour].count++
	}

	bestHour := -1
	var best hourStat
	for hour := 0; hour < 24; hour++ {
		s := stats[hour]
		if s.count == 0 {
			continue
		}
		if bestHour < 0 || s.mean() > best.mean() || (s.mean() == best.mean() && s.count > best.count) {
			bestHour = hour
			best = s
		}
	}

	return bestHour, bestHour >= 0
}
