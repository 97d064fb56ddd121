package dto

import (
	"strings"

	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// MatchRequest matches a query against caller-supplied candidates
type MatchRequest struct {
	Query      string   `json:"query" binding:"required,max=500"`
	Candidates []string `json:"candidates" binding:"max=10000"`
	EntityType string   `json:"entity_type" binding:"omitempty,oneof=generic vendor item customer job payee"`
}

// ResolveRequest resolves a query against the bookkeeping names
type ResolveRequest struct {
	Query      string `json:"query" binding:"required,max=500"`
	EntityType string `json:"entity_type" binding:"omitempty,oneof=generic vendor item customer job payee"`
}

// PayeeRequest resolves a payee name
type PayeeRequest struct {
	Query string `json:"query" binding:"required,max=500"`
}

// AliasRequest adds an alias
type AliasRequest struct {
	Alias     string `json:"alias" binding:"required,max=200"`
	Canonical string `json:"canonical" binding:"required,max=200"`
}

// NameRequest carries one payee name
type NameRequest struct {
	Name string `json:"name" binding:"required,max=500"`
}

// ImportNamesRequest adds names of one entity type to the ledger mirror
type ImportNamesRequest struct {
	Names []string `json:"names" binding:"required,min=1,max=10000,dive,max=500"`
}

// CheckInput is one check to import into the ledger mirror
type CheckInput struct {
	TxnID   string          `json:"txn_id" binding:"required,max=100"`
	Number  string          `json:"number" binding:"max=50"`
	Payee   string          `json:"payee" binding:"required,max=500"`
	Account string          `json:"account" binding:"max=200"`
	Amount  decimal.Decimal `json:"amount"`
	Date    string          `json:"date" binding:"required,max=50"`
	Memo    string          `json:"memo" binding:"max=1000"`
}

// ToDomain converts the input to a ledger check
func (in CheckInput) ToDomain() ledger.Check {
	return ledger.Check{
		TxnID:   strings.TrimSpace(in.TxnID),
		Number:  strings.TrimSpace(in.Number),
		Payee:   strings.TrimSpace(in.Payee),
		Account: strings.TrimSpace(in.Account),
		Amount:  in.Amount,
		Date:    strings.TrimSpace(in.Date),
		Memo:    in.Memo,
	}
}

// ImportChecksRequest upserts checks into the ledger mirror
type ImportChecksRequest struct {
	Checks []CheckInput `json:"checks" binding:"required,min=1,max=5000,dive"`
}

// ImportResponse reports how many records an import accepted
type ImportResponse struct {
	Entity string `json:"entity,omitempty"`
	Count  int    `json:"count"`
}

// RecentChecksQuery filters recent checks
type RecentChecksQuery struct {
	Days  int    `form:"days" binding:"omitempty,min=1,max=3650"`
	Payee string `form:"payee" binding:"max=500"`
}

// CleanResponse is a cleaned payee name
type CleanResponse struct {
	Input string `json:"input"`
	Name  string `json:"name"`
}

// ChecksResponse lists checks for a window or quarter
type ChecksResponse struct {
	Quarter string         `json:"quarter,omitempty"`
	Days    int            `json:"days,omitempty"`
	Payee   string         `json:"payee,omitempty"`
	Count   int            `json:"count"`
	Checks  []ledger.Check `json:"checks"`
}
