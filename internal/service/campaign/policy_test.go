package campaign

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type fakeLeadRepo struct {
	leads   []*domain.Lead
	listErr error

	contacted map[string]time.Time
}

func newFakeLeadRepo(leads ...*domain.Lead) *fakeLeadRepo {
	return &fakeLeadRepo{
		leads:     leads,
		contacted: make(map[string]time.Time),
	}
}

func (f *fakeLeadRepo) SaveLeads(_ context.Context, leads []*domain.Lead) error {
	f.leads = append(f.leads, leads...)
	return nil
}

func (f *fakeLeadRepo) ListLeads(_ context.Context) ([]*domain.Lead, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.leads, nil
}

func (f *fakeLeadRepo) MarkContacted(_ context.Context, id string, at time.Time) (bool, error) {
	for _, lead := range f.leads {
		if lead.ID == id {
			f.contacted[id] = at
			return true, nil
		}
	}
	return false, nil
}

func leadWithScore(id string, score int, lastContacted *time.Time) *domain.Lead {
	return &domain.Lead{
		ID:              id,
		Email:           id + "@example.com",
		Score:           score,
		LastContactedAt: lastContacted,
	}
}

func TestPolicy_EligibleLeads_NeverContactedIsEligible(t *testing.T) {
	repo := newFakeLeadRepo(leadWithScore("l1", 95, nil))
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), time.Now().UTC(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Tier != domain.TierHot {
		t.Errorf("tier = %v, want %v", eligible[0].Tier, domain.TierHot)
	}
}

func TestPolicy_EligibleLeads_IntervalBoundaryIsInclusive(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	exactlyDue := now.Add(-2 * time.Hour)
	almostDue := now.Add(-2*time.Hour + time.Minute)

	repo := newFakeLeadRepo(
		leadWithScore("due", 95, &exactlyDue),
		leadWithScore("early", 95, &almostDue),
	)
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), now, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Lead.ID != "due" {
		t.Errorf("eligible lead = %q, want %q", eligible[0].Lead.ID, "due")
	}
}

func TestPolicy_EligibleLeads_TierIntervalsDiffer(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	// Three hours ago: past the hot interval, inside the warm one.
	threeHoursAgo := now.Add(-3 * time.Hour)

	repo := newFakeLeadRepo(
		leadWithScore("hot", 95, &threeHoursAgo),
		leadWithScore("warm", 75, &threeHoursAgo),
	)
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), now, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Lead.ID != "hot" {
		t.Errorf("eligible lead = %q, want %q", eligible[0].Lead.ID, "hot")
	}
}

func TestPolicy_EligibleLeads_SortedByScoreDescending(t *testing.T) {
	repo := newFakeLeadRepo(
		leadWithScore("mid", 60, nil),
		leadWithScore("top", 98, nil),
		leadWithScore("low", 20, nil),
	)
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), time.Now().UTC(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 3 {
		t.Fatalf("eligible count = %d, want 3", len(eligible))
	}
	for i, expected := range []string{"top", "mid", "low"} {
		if eligible[i].Lead.ID != expected {
			t.Errorf("eligible[%d] = %q, want %q", i, eligible[i].Lead.ID, expected)
		}
	}
}

func TestPolicy_EligibleLeads_LimitCapsResults(t *testing.T) {
	repo := newFakeLeadRepo(
		leadWithScore("a", 90, nil),
		leadWithScore("b", 80, nil),
		leadWithScore("c", 70, nil),
	)
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), time.Now().UTC(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 2 {
		t.Fatalf("eligible count = %d, want 2", len(eligible))
	}
	if eligible[0].Lead.ID != "a" || eligible[1].Lead.ID != "b" {
		t.Errorf("limit kept %q, %q; want the two highest scores", eligible[0].Lead.ID, eligible[1].Lead.ID)
	}
}

func TestPolicy_EligibleLeads_SkipsLeadsWithoutEmail(t *testing.T) {
	repo := newFakeLeadRepo(
		&domain.Lead{ID: "no-email", Score: 99},
		leadWithScore("ok", 50, nil),
	)
	policy := NewPolicy(repo)

	eligible, err := policy.EligibleLeads(context.Background(), time.Now().UTC(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(eligible) != 1 {
		t.Fatalf("eligible count = %d, want 1", len(eligible))
	}
	if eligible[0].Lead.ID != "ok" {
		t.Errorf("eligible lead = %q, want %q", eligible[0].Lead.ID, "ok")
	}
}

func TestPolicy_EligibleLeads_RepositoryError(t *testing.T) {
	repo := newFakeLeadRepo()
	repo.listErr = errors.New("connection refused")
	policy := NewPolicy(repo)

	_, err := policy.EligibleLeads(context.Background(), time.Now().UTC(), 0)
	if !errors.Is(err, repo.listErr) {
		t.Errorf("EligibleLeads() error = %v, want %v", err, repo.listErr)
	}
}

func TestPolicy_MarkContacted_UnknownLead(t *testing.T) {
	policy := NewPolicy(newFakeLeadRepo())

	err := policy.MarkContacted(context.Background(), "missing", time.Now().UTC())
	if !errors.Is(err, domain.ErrLeadNotFound) {
		t.Errorf("MarkContacted() error = %v, want %v", err, domain.ErrLeadNotFound)
	}
}

func TestPolicy_ImportLeads_StampsMissingIDs(t *testing.T) {
	repo := newFakeLeadRepo()
	policy := NewPolicy(repo)

	leads := []*domain.Lead{
		{Email: "new@example.com", Score: 40},
		{ID: "existing", Email: "kept@example.com", Score: 60},
	}

	if err := policy.ImportLeads(context.Background(), leads); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if leads[0].ID == "" {
		t.Error("imported lead without id was not stamped")
	}
	if leads[0].Status != "new" {
		t.Errorf("imported lead status = %q, want %q", leads[0].Status, "new")
	}
	if leads[1].ID != "existing" {
		t.Errorf("existing id was overwritten: %q", leads[1].ID)
	}
}
