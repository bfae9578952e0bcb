package campaign

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

// EligibleLead pairs a lead with the tier that admitted it, so callers
// see which contact interval applied.
type EligibleLead struct {
	Lead *domain.Lead `json:"lead"`
	Tier domain.Tier  `json:"tier"`
}

// Policy decides which leads may be contacted now. Hotter tiers allow
// more frequent contact; a lead is eligible once its tier interval has
// fully elapsed since the last recorded contact.
type Policy struct {
	repo domain.LeadRepository
}

func NewPolicy(repo domain.LeadRepository) *Policy {
	return &Policy{repo: repo}
}

// EligibleLeads returns the contactable leads at the given instant,
// hottest scores first. Leads without an email address cannot be
// contacted and are excluded. A limit of zero or less means no cap.
func (p *Policy) EligibleLeads(ctx context.Context, now time.Time, limit int) ([]EligibleLead, error) {
	leads, err := p.repo.ListLeads(ctx)
	if err != nil {
		return nil, err
	}

	eligible := make([]EligibleLead, 0, len(leads))
	for _, lead := range leads {
		if lead.Email == "" {
			continue
		}
		if !contactable(lead, now) {
			continue
		}
		eligible = append(eligible, EligibleLead{Lead: lead, Tier: lead.Tier()})
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Lead.Score > eligible[j].Lead.Score
	})

	if limit > 0 && len(eligible) > limit {
		eligible = eligible[:limit]
	}

	slog.DebugContext(ctx, "campaign eligibility evaluated",
		slog.Int("total", len(leads)),
		slog.Int("eligible", len(eligible)),
	)

	return eligible, nil
}

// contactable applies the tier interval. The boundary is inclusive: a
// hot lead contacted exactly two hours ago is due again.
func contactable(lead *domain.Lead, now time.Time) bool {
	if lead.LastContactedAt == nil {
		return true
	}
	return now.Sub(*lead.LastContactedAt) >= lead.Tier().ContactInterval()
}

// MarkContacted records a successful contact, resetting the lead's
// frequency window.
func (p *Policy) MarkContacted(ctx context.Context, id string, at time.Time) error {
	updated, err := p.repo.MarkContacted(ctx, id, at)
	if err != nil {
		return err
	}
	if !updated {
		return domain.ErrLeadNotFound
	}

	slog.InfoContext(ctx, "lead contact recorded",
		slog.String("lead_id", id),
		slog.Time("contacted_at", at),
	)
	return nil
}

// ImportLeads stores a batch of leads, stamping ids and defaults on
// entries that arrive without them.
func (p *Policy) ImportLeads(ctx context.Context, leads []*domain.Lead) error {
	for _, lead := range leads {
		if lead.ID == "" {
			fresh := domain.NewLead(lead.Email, lead.Name, lead.Score)
			lead.ID = fresh.ID
			lead.CreatedAt = fresh.CreatedAt
			if lead.Status == "" {
				lead.Status = fresh.Status
			}
		}
	}
	return p.repo.SaveLeads(ctx, leads)
}
