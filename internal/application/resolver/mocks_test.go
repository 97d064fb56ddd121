package resolver

import (
	"context"
	"time"

	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/ledger"
	"github.com/erp/resolver/internal/domain/matching"
	"github.com/stretchr/testify/mock"
)

// MockNameDirectory is a mock implementation of NameDirectory
type MockNameDirectory struct {
	mock.Mock
}

func (m *MockNameDirectory) ListNames(ctx context.Context, entity matching.EntityType) ([]string, error) {
	args := m.Called(ctx, entity)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

// MockCheckSource is a mock implementation of CheckSource
type MockCheckSource struct {
	mock.Mock
}

func (m *MockCheckSource) ListChecks(ctx context.Context, from, to time.Time) ([]ledger.Check, error) {
	args := m.Called(ctx, from, to)
	checks, _ := args.Get(0).([]ledger.Check)
	return checks, args.Error(1)
}

// MockAliasStore is a mock implementation of AliasStore
type MockAliasStore struct {
	mock.Mock
}

func (m *MockAliasStore) ListAliases(ctx context.Context) ([]alias.Entry, error) {
	args := m.Called(ctx)
	entries, _ := args.Get(0).([]alias.Entry)
	return entries, args.Error(1)
}

func (m *MockAliasStore) SaveAlias(ctx context.Context, e alias.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockAliasStore) DeleteAlias(ctx context.Context, aliasKey string) error {
	args := m.Called(ctx, aliasKey)
	return args.Error(0)
}

// MockLedgerWriter is a mock implementation of LedgerWriter
type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) SaveNames(ctx context.Context, entity matching.EntityType, names []string) error {
	args := m.Called(ctx, entity, names)
	return args.Error(0)
}

func (m *MockLedgerWriter) SaveChecks(ctx context.Context, checks []ledger.Check) error {
	args := m.Called(ctx, checks)
	return args.Error(0)
}

// MockMatchRecorder is a mock implementation of MatchRecorder
type MockMatchRecorder struct {
	mock.Mock
}

func (m *MockMatchRecorder) RecordMatch(ctx context.Context, entity matching.EntityType, r matching.MatchResult) {
	m.Called(ctx, entity, r)
}
