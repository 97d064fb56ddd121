package persistence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/erp/resolver/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const upsertBatchSize = 200

// GormLedgerRepository is a local mirror of bookkeeping names and checks.
// It serves as the name directory and the check source.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// ListNames returns the known names for entity, sorted. Payee names also
// include every payee seen on a mirrored check.
func (r *GormLedgerRepository) ListNames(ctx context.Context, entity matching.EntityType) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Model(&models.NameModel{}).
		Where("entity_type = ?", string(entity)).
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s names: %w", entity, err)
	}

	if entity == matching.EntityPayee {
		var payees []string
		err := r.db.WithContext(ctx).
			Model(&models.CheckModel{}).
			Distinct("payee").
			Pluck("payee", &payees).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list check payees: %w", err)
		}
		names = append(names, payees...)
	}

	return uniqueSorted(names), nil
}

// SaveNames adds names for entity, skipping blanks and duplicates
func (r *GormLedgerRepository) SaveNames(ctx context.Context, entity matching.EntityType, names []string) error {
	rows := make([]models.NameModel, 0, len(names))
	now := time.Now()
	for _, n := range uniqueSorted(names) {
		rows = append(rows, models.NameModel{EntityType: string(entity), Name: n, CreatedAt: now})
	}
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save %s names: %w", entity, err)
	}
	return nil
}

// ListChecks returns checks dated in [from, to), oldest first
func (r *GormLedgerRepository) ListChecks(ctx context.Context, from, to time.Time) ([]ledger.Check, error) {
	var rows []models.CheckModel
	err := r.db.WithContext(ctx).
		Where("posted_on >= ? AND posted_on < ?", from.Format(models.DateLayout), to.Format(models.DateLayout)).
		Order("posted_on ASC, txn_id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}

	checks := make([]ledger.Check, len(rows))
	for i := range rows {
		checks[i] = rows[i].ToDomain()
	}
	return checks, nil
}

// SaveChecks inserts or replaces checks by transaction ID
func (r *GormLedgerRepository) SaveChecks(ctx context.Context, checks []ledger.Check) error {
	rows := make([]*models.CheckModel, 0, len(checks))
	for _, c := range checks {
		if c.TxnID == "" {
			continue
		}
		rows = append(rows, models.CheckModelFromDomain(c))
	}
	if len(rows) == 0 {
		return nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "txn_id"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, upsertBatchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save checks: %w", err)
	}
	return nil
}

func uniqueSorted(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
