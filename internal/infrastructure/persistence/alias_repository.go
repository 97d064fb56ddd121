package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/erp/resolver/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAliasRepository stores runtime-added aliases
type GormAliasRepository struct {
	db *gorm.DB
}

// NewGormAliasRepository creates a new GormAliasRepository
func NewGormAliasRepository(db *gorm.DB) *GormAliasRepository {
	return &GormAliasRepository{db: db}
}

// ListAliases returns saved aliases in the order they were first added
func (r *GormAliasRepository) ListAliases(ctx context.Context) ([]alias.Entry, error) {
	var rows []models.AliasModel
	if err := r.db.WithContext(ctx).Order("created_at ASC, alias ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}

	entries := make([]alias.Entry, len(rows))
	for i := range rows {
		entries[i] = rows[i].ToDomain()
	}
	return entries, nil
}

// SaveAlias inserts the alias or updates the canonical name of an existing one
func (r *GormAliasRepository) SaveAlias(ctx context.Context, e alias.Entry) error {
	key := alias.NormalizeKey(e.Alias)
	if key == "" || e.Canonical == "" {
		return shared.ErrInvalidInput
	}

	now := time.Now()
	model := &models.AliasModel{
		Alias:     key,
		Canonical: e.Canonical,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "alias"}},
			DoUpdates: clause.AssignmentColumns([]string{"canonical", "updated_at"}),
		}).
		Create(model).Error
	if err != nil {
		return fmt.Errorf("failed to save alias %q: %w", key, err)
	}
	return nil
}

// DeleteAlias removes a saved alias
func (r *GormAliasRepository) DeleteAlias(ctx context.Context, aliasKey string) error {
	result := r.db.WithContext(ctx).
		Where("alias = ?", alias.NormalizeKey(aliasKey)).
		Delete(&models.AliasModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete alias: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
