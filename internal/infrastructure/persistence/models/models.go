// Package models holds the GORM models for aliases and the local ledger mirror.
package models

import (
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DateLayout is the stored form of check dates. It sorts lexically.
const DateLayout = "2006-01-02"

// AliasModel is a runtime-added alias
type AliasModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Alias     string    `gorm:"type:varchar(200);not null;uniqueIndex"`
	Canonical string    `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AliasModel) TableName() string {
	return "aliases"
}

// BeforeCreate assigns an ID when missing
func (m *AliasModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// ToDomain converts the model to an alias entry
func (m *AliasModel) ToDomain() alias.Entry {
	return alias.Entry{Alias: m.Alias, Canonical: m.Canonical}
}

// NameModel is one known vendor, item, customer, job or payee name
type NameModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	EntityType string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_names_entity_name"`
	Name       string    `gorm:"type:varchar(200);not null;uniqueIndex:idx_names_entity_name"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (NameModel) TableName() string {
	return "entity_names"
}

// BeforeCreate assigns an ID when missing
func (m *NameModel) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CheckModel mirrors one check from the bookkeeping system
type CheckModel struct {
	TxnID    string          `gorm:"type:varchar(64);primary_key"`
	Number   string          `gorm:"type:varchar(32)"`
	Payee    string          `gorm:"type:varchar(200);not null;index"`
	Account  string          `gorm:"type:varchar(200)"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PostedOn string          `gorm:"type:varchar(10);not null;index"`
	Memo     string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CheckModel) TableName() string {
	return "checks"
}

// CheckModelFromDomain converts a check. Unparsable dates are stored empty
// and never fall inside a date range.
func CheckModelFromDomain(c ledger.Check) *CheckModel {
	m := &CheckModel{
		TxnID:   c.TxnID,
		Number:  c.Number,
		Payee:   c.Payee,
		Account: c.Account,
		Amount:  c.Amount,
		Memo:    c.Memo,
	}
	if d, ok := c.ParsedDate(); ok {
		m.PostedOn = d.Format(DateLayout)
	}
	return m
}

// ToDomain converts the model to a check
func (m *CheckModel) ToDomain() ledger.Check {
	return ledger.Check{
		TxnID:   m.TxnID,
		Number:  m.Number,
		Payee:   m.Payee,
		Account: m.Account,
		Amount:  m.Amount,
		Date:    m.PostedOn,
		Memo:    m.Memo,
	}
}

// All lists every model for AutoMigrate
func All() []any {
	return []any{&AliasModel{}, &NameModel{}, &CheckModel{}}
}
