package adaptive

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type fakeRepo struct {
	domain.PostRepository

	samples    []domain.EngagementSample
	samplesErr error

	scheduledAt map[time.Time]*domain.Post
}

func (f *fakeRepo) FindPublishedWithScore(_ context.Context) ([]domain.EngagementSample, error) {
	if f.samplesErr != nil {
		return nil, f.samplesErr
	}
	return f.samples, nil
}

func (f *fakeRepo) FindScheduledAt(_ context.Context, instant time.Time) (*domain.Post, error) {
	if post, ok := f.scheduledAt[instant]; ok {
		return post, nil
	}
	return nil, domain.ErrPostNotFound
}

type fakeFallback struct {
	slot   time.Time
	called bool
}

func (f *fakeFallback) NextSlot(_ context.Context, _ time.Time) (time.Time, error) {
	f.called = true
	return f.slot, nil
}

func sampleAt(hour, score int) domain.EngagementSample {
	return domain.EngagementSample{
		ScheduledFor: time.Date(2026, 2, 20, hour, 0, 0, 0, time.UTC),
		Score:        score,
	}
}

func TestAllocator_NextSlot_PicksBestMeanHour(t *testing.T) {
	repo := &fakeRepo{
		samples: []domain.EngagementSample{
			sampleAt(14, 95),
			sampleAt(14, 85),
			sampleAt(9, 20),
			sampleAt(9, 30),
		},
	}
	fallback := &fakeFallback{}
	alloc := NewAllocator(repo, fallback, nil)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	got, err := alloc.NextSlot(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("NextSlot() = %v, want %v", got, expected)
	}
	if fallback.called {
		t.Error("fallback was called despite usable history")
	}
}

func TestAllocator_NextSlot_PastBestHourMovesToTomorrow(t *testing.T) {
	repo := &fakeRepo{
		samples: []domain.EngagementSample{sampleAt(14, 90)},
	}
	alloc := NewAllocator(repo, &fakeFallback{}, nil)

	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	got, err := alloc.NextSlot(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("NextSlot() = %v, want %v", got, expected)
	}
}

func TestAllocator_NextSlot_ExactBestHourMovesToTomorrow(t *testing.T) {
	// The candidate must be strictly in the future.
	repo := &fakeRepo{
		samples: []domain.EngagementSample{sampleAt(14, 90)},
	}
	alloc := NewAllocator(repo, &fakeFallback{}, nil)

	now := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	got, err := alloc.NextSlot(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := time.Date(2026, 3, 3, 14, 0, 0, 0, time.UTC)
	if !got.Equal(expected) {
		t.Errorf("NextSlot() = %v, want %v", got, expected)
	}
}

func TestAllocator_NextSlot_CollisionShiftsOnce(t *testing.T) {
	candidate := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		samples: []domain.EngagementSample{sampleAt(14, 90)},
		scheduledAt: map[time.Time]*domain.Post{
			candidate: {ID: "existing", Status: domain.StatusScheduled, ScheduledFor: &candidate},
		},
	}
	alloc := NewAllocator(repo, &fakeFallback{}, nil)

	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	got, err := alloc.NextSlot(context.Background(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := candidate.Add(30 * time.Minute)
	if !got.Equal(expected) {
		t.Errorf("NextSlot() = %v, want %v", got, expected)
	}
}

func TestAllocator_NextSlot_NoUsableHistoryDegradesToFallback(t *testing.T) {
	// Samples without a scheduling instant carry no hour signal.
	fallbackSlot := time.Date(2026, 3, 2, 11, 30, 0, 0, time.UTC)
	repo := &fakeRepo{
		samples: []domain.EngagementSample{
			{Score: 80},
			{Score: 60},
		},
	}
	fallback := &fakeFallback{slot: fallbackSlot}
	alloc := NewAllocator(repo, fallback, nil)

	got, err := alloc.NextSlot(context.Background(), time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !fallback.called {
		t.Error("fallback was not called")
	}
	if !got.Equal(fallbackSlot) {
		t.Errorf("NextSlot() = %v, want fallback slot %v", got, fallbackSlot)
	}
}

func TestAllocator_NextSlot_RepositoryError(t *testing.T) {
	repoErr := errors.New("connection refused")
	alloc := NewAllocator(&fakeRepo{samplesErr: repoErr}, &fakeFallback{}, nil)

	_, err := alloc.NextSlot(context.Background(), time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	if !errors.Is(err, repoErr) {
		t.Errorf("NextSlot() error = %v, want %v", err, repoErr)
	}
}

func TestBestPerformingHour_TieBreaks(t *testing.T) {
	tests := []struct {
		name     string
		samples  []domain.EngagementSample
		expected int
	}{
		{
			name: "equal mean prefers larger sample count",
			samples: []domain.EngagementSample{
				sampleAt(9, 80),
				sampleAt(17, 80),
				sampleAt(17, 80),
			},
			expected: 17,
		},
		{
			name: "equal mean and count prefers earlier hour",
			samples: []domain.EngagementSample{
				sampleAt(17, 80),
				sampleAt(9, 80),
			},
			expected: 9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := bestPerformingHour(tt.samples)
			if !ok {
				t.Fatal("bestPerformingHour() ok = false, want true")
			}
			if got != tt.expected {
				t.Errorf("bestPerformingHour() = %d, want %d", got, tt.expected)
			}
		})
	}
}
