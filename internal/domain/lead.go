package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tier buckets a lead score into a contact-frequency class.
type Tier string

const (
	TierHot    Tier = "hot"
	TierWarm   Tier = "warm"
	TierMedium Tier = "medium"
	TierCool   Tier = "cool"
	TierCold   Tier = "cold"
)

func (t Tier) String() string {
	return string(t)
}

// ContactInterval returns the minimum time between successful contacts
// for leads in this tier.
func (t Tier) ContactInterval() time.Duration {
	switch t {
	case TierHot:
		return 2 * time.Hour
	case TierWarm:
		return 6 * time.Hour
	case TierMedium:
		return 12 * time.Hour
	case TierCool:
		return 24 * time.Hour
	default:
		return 48 * time.Hour
	}
}

// TierForScore maps a 0-100 lead score to its tier.
func TierForScore(score int) Tier {
	switch {
	case score >= 90:
		return TierHot
	case score >= 70:
		return TierWarm
	case score >= 50:
		return TierMedium
	case score >= 30:
		return TierCool
	default:
		return TierCold
	}
}

type Lead struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Email           string     `gorm:"size:320;index" json:"email"`
	Name            string     `gorm:"size:200" json:"name"`
	Company         string     `gorm:"size:200" json:"company"`
	Source          string     `gorm:"size:100" json:"source"`
	Score           int        `gorm:"index" json:"score"`
	Status          string     `gorm:"size:50" json:"status"`
	LastContactedAt *time.Time `json:"last_contacted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

func (Lead) TableName() string {
	return "leads"
}

func NewLead(email, name string, score int) *Lead {
	return &Lead{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		Score:     score,
		Status:    "new",
		CreatedAt: time.Now().UTC(),
	}
}

func (l *Lead) Tier() Tier {
	return TierForScore(l.Score)
}
