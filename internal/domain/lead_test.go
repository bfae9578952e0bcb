package domain

import (
	"testing"
	"time"
)

func TestTierForScoreBoundaries(t *testing.T) {
	tests := []struct {
		score    int
		expected Tier
	}{
		{100, TierHot},
		{90, TierHot},
		{89, TierWarm},
		{70, TierWarm},
		{69, TierMedium},
		{50, TierMedium},
		{49, TierCool},
		{30, TierCool},
		{29, TierCold},
		{0, TierCold},
	}

	for _, tt := range tests {
		if got := TierForScore(tt.score); got != tt.expected {
			t.Errorf("TierForScore(%d) = %v, want %v", tt.score, got, tt.expected)
		}
	}
}

func TestTierContactInterval(t *testing.T) {
	tests := []struct {
		tier     Tier
		expected time.Duration
	}{
		{TierHot, 2 * time.Hour},
		{TierWarm, 6 * time.Hour},
		{TierMedium, 12 * time.Hour},
		{TierCool, 24 * time.Hour},
		{TierCold, 48 * time.Hour},
		{Tier("unknown"), 48 * time.Hour},
	}

	for _, tt := range tests {
		if got := tt.tier.ContactInterval(); got != tt.expected {
			t.Errorf("Tier(%q).ContactInterval() = %v, want %v", tt.tier, got, tt.expected)
		}
	}
}

func TestNewLeadDefaults(t *testing.T) {
	lead := NewLead("ada@example.com", "Ada", 95)

	if lead.ID == "" {
		t.Error("NewLead() ID is empty")
	}
	if lead.Status != "new" {
		t.Errorf("NewLead() status = %q, want %q", lead.Status, "new")
	}
	if lead.Tier() != TierHot {
		t.Errorf("NewLead() tier = %v, want %v", lead.Tier(), TierHot)
	}
	if lead.LastContactedAt != nil {
		t.Error("NewLead() LastContactedAt != nil")
	}
}
