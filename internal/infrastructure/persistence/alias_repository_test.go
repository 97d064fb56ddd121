package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/erp/resolver/internal/domain/alias"
	"github.com/erp/resolver/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormAliasRepository_SaveAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAliasRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.SaveAlias(ctx, alias.Entry{Alias: "  Brain ", Canonical: "Bryan"}))
	require.NoError(t, repo.SaveAlias(ctx, alias.Entry{Alias: "elmar", Canonical: "Elmer"}))

	entries, err := repo.ListAliases(ctx)
	require.NoError(t, err)
	assert.Equal(t, []alias.Entry{
		{Alias: "brain", Canonical: "Bryan"},
		{Alias: "elmar", Canonical: "Elmer"},
	}, entries)
}

func TestGormAliasRepository_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAliasRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.SaveAlias(ctx, alias.Entry{Alias: "selvin g", Canonical: "Selvin"}))
	require.NoError(t, repo.SaveAlias(ctx, alias.Entry{Alias: "SELVIN G", Canonical: "Selvin Garcia"}))

	entries, err := repo.ListAliases(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Selvin Garcia", entries[0].Canonical)
}

func TestGormAliasRepository_SaveRejectsBlank(t *testing.T) {
	repo := NewGormAliasRepository(newTestDatabase(t).DB)

	err := repo.SaveAlias(context.Background(), alias.Entry{Alias: "  ", Canonical: "X"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	err = repo.SaveAlias(context.Background(), alias.Entry{Alias: "x", Canonical: ""})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestGormAliasRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAliasRepository(newTestDatabase(t).DB)

	require.NoError(t, repo.SaveAlias(ctx, alias.Entry{Alias: "brain", Canonical: "Bryan"}))
	require.NoError(t, repo.DeleteAlias(ctx, "Brain"))
	assert.ErrorIs(t, repo.DeleteAlias(ctx, "brain"), shared.ErrNotFound)
}

func TestGormAliasRepository_Postgres(t *testing.T) {
	t.Run("list query", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		now := time.Now()
		mock.ExpectQuery(`SELECT \* FROM "aliases" ORDER BY created_at ASC, alias ASC`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "alias", "canonical", "created_at", "updated_at"}).
				AddRow("0b6c6a4e-39f4-4f5c-9d77-8a0f1f7c4e11", "brain", "Bryan", now, now))

		entries, err := NewGormAliasRepository(gormDB).ListAliases(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []alias.Entry{{Alias: "brain", Canonical: "Bryan"}}, entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("upsert on alias", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		mock.ExpectExec(`INSERT INTO "aliases" .* ON CONFLICT \("alias"\) DO UPDATE SET "canonical"="excluded"."canonical","updated_at"="excluded"."updated_at"`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := NewGormAliasRepository(gormDB).SaveAlias(context.Background(), alias.Entry{Alias: "brain", Canonical: "Bryan"})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("database error is wrapped", func(t *testing.T) {
		gormDB, mock, mockDB := newMockPostgres(t)
		defer mockDB.Close()

		dbErr := errors.New("connection reset")
		mock.ExpectQuery(`SELECT \* FROM "aliases"`).WillReturnError(dbErr)

		_, err := NewGormAliasRepository(gormDB).ListAliases(context.Background())
		assert.ErrorIs(t, err, dbErr)
	})
}
