package leadstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/postpilot-labs/post-scheduling/internal/config"
	"github.com/postpilot-labs/post-scheduling/internal/domain"
)

type leadStore struct {
	db *gorm.DB
}

// Open connects to Postgres and migrates the leads table.
func Open(cfg *config.PostgresConfig) (domain.LeadRepository, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.AutoMigrate(&domain.Lead{}); err != nil {
		return nil, fmt.Errorf("failed to migrate leads table: %w", err)
	}

	return &leadStore{db: db}, nil
}

// New wraps an existing gorm handle, used by tests.
func New(db *gorm.DB) domain.LeadRepository {
	return &leadStore{db: db}
}

func (s *leadStore) SaveLeads(ctx context.Context, leads []*domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(leads).Error
}

func (s *leadStore) ListLeads(ctx context.Context) ([]*domain.Lead, error) {
	var leads []*domain.Lead
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Find(&leads).Error
	if err != nil {
		return nil, err
	}
	return leads, nil
}

func (s *leadStore) MarkContacted(ctx context.Context, id string, at time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&domain.Lead{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"last_contacted_at": at.UTC(),
			"status":            "contacted",
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Ping verifies the underlying connection, for readiness checks.
func (s *leadStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
