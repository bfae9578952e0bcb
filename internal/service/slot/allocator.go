package slot

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

const (
	// slotInterval is the spacing between candidate posting slots.
	slotInterval = 30 * time.Minute

	fallbackMinHour = 9
	fallbackMaxHour = 18
)

// Allocator finds the earliest free posting slot inside a fixed daily
// window. It is the cold-start path, used while too little engagement
// data exists for the adaptive allocator.
type Allocator struct {
	repo            domain.PostRepository
	windowStartHour int
	windowEndHour   int
	horizonDays     int
	rng             *rand.Rand
}

// NewAllocator builds a default allocator searching [windowStartHour,
// windowEndHour) on half-hour boundaries across horizonDays days. The
// rng drives only the exhaustion fallback; inject a seeded source in
// tests.
func NewAllocator(repo domain.PostRepository, windowStartHour, windowEndHour, horizonDays int, rng *rand.Rand) *Allocator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Allocator{
		repo:            repo,
		windowStartHour: windowStartHour,
		windowEndHour:   windowEndHour,
		horizonDays:     horizonDays,
		rng:             rng,
	}
}

// NextSlot returns the earliest half-hour slot strictly after now that
// is inside the posting window and not already booked. Repository
// failures abort the call; the caller retries with a fresh request.
func (a *Allocator) NextSlot(ctx context.Context, now time.Time) (time.Time, error) {
	now = now.UTC()
	horizonEnd := now.AddDate(0, 0, a.horizonDays)

	booked, err := a.repo.FindScheduledInRange(ctx, now, horizonEnd)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load scheduled posts for collision set",
			slog.Time("start", now),
			slog.Time("end", horizonEnd),
			slog.String("error", err.Error()),
		)
		return time.Time{}, err
	}

	occupied := make(map[time.Time]struct{}, len(booked))
	for _, post := range booked {
		if post.ScheduledFor == nil {
			continue
		}
		occupied[domain.SlotKey(*post.ScheduledFor)] = struct{}{}
	}

	for dayOffset := 0; dayOffset < a.horizonDays; dayOffset++ {
		day := now.AddDate(0, 0, dayOffset)

		for hour := a.windowStartHour; hour < a.windowEndHour; hour++ {
			for _, minute := range []int{0, 30} {
				candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)

				if !candidate.After(now) {
					continue
				}

				if _, taken := occupied[candidate]; taken {
					continue
				}

				slog.DebugContext(ctx, "default slot selected",
					slog.Time("slot", candidate),
					slog.Int("occupied_count", len(occupied)),
				)
				return candidate, nil
			}
		}
	}

	// Every slot in the horizon is booked. Fall back to a pseudo-random
	// slot tomorrow so the call stays live; non-deterministic by design.
	fallback := a.randomFallback(now)

	slog.WarnContext(ctx, "posting window exhausted, using random fallback slot",
		slog.Int("horizon_days", a.horizonDays),
		slog.Time("slot", fallback),
	)
	return fallback, nil
}

func (a *Allocator) randomFallback(now time.Time) time.Time {
	tomorrow := now.AddDate(0, 0, 1)
	hour := fallbackMinHour + a.rng.Intn(fallbackMaxHour-fallbackMinHour+1)
	minute := a.rng.Intn(2) * 30

	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), hour, minute, 0, 0, time.UTC)
}
