package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarmac/infras/otel/mocks"
	"tarmac/infras/postgres"
	"tarmac/internal/domains/slot/model"
	"tarmac/internal/domains/slot/repository"
)

func newTestDB(t *testing.T) (*postgres.Connection, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")

	return &postgres.Connection{Read: sqlxDB, Write: sqlxDB}, mock
}

func TestSlotRepository_HoldTx(t *testing.T) {
	t.Run("wins the slot and returns the new token", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE slots`).
			WillReturnRows(sqlmock.NewRows([]string{"lock_token"}).AddRow(int64(4)))
		mock.ExpectCommit()

		tx, err := db.Write.BeginTxx(context.Background(), nil)
		require.NoError(t, err)

		token, ok, err := repo.HoldTx(context.Background(), tx, "slot-1")

		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(4), token)

		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("slot not available", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectBegin()
		mock.ExpectQuery(`UPDATE slots`).
			WillReturnRows(sqlmock.NewRows([]string{"lock_token"}))
		mock.ExpectRollback()

		tx, err := db.Write.BeginTxx(context.Background(), nil)
		require.NoError(t, err)

		_, ok, err := repo.HoldTx(context.Background(), tx, "slot-1")

		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSlotRepository_GetAvailable(t *testing.T) {
	db, mock := newTestDB(t)
	repo := repository.New(db, mocks.NewOtel())

	rows := sqlmock.NewRows([]string{"id", "hub_id", "status"}).
		AddRow("slot-1", "hub-1", model.StatusAvailable)

	// The day window is half-open and already-started slots are excluded: a
	// slot at next-day midnight belongs to the next day's listing, and a slot
	// whose start time has passed is not bookable.
	mock.ExpectPrepare(`SELECT (.+) FROM slots\s+WHERE \(slots\.hub_id = \$1 AND slots\.status = \$2 AND slots\.start_time >= \$3 AND slots\.start_time < \$4 AND slots\.start_time > \$5\)`).
		ExpectQuery().
		WillReturnRows(rows)

	slots, err := repo.GetAvailable(context.Background(), "hub-1", time.Now(), 0)

	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "slot-1", slots[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepository_GetRange(t *testing.T) {
	db, mock := newTestDB(t)
	repo := repository.New(db, mocks.NewOtel())

	rows := sqlmock.NewRows([]string{"id", "hub_id", "status"}).
		AddRow("slot-1", "hub-1", model.StatusAvailable).
		AddRow("slot-2", "hub-1", model.StatusConfirmed)

	// The calendar window is half-open over whole days and carries no status
	// filter: taken and cancelled slots are part of the schedule.
	mock.ExpectPrepare(`SELECT (.+) FROM slots\s+WHERE \(slots\.hub_id = \$1 AND slots\.start_time >= \$2 AND slots\.start_time < \$3\)`).
		ExpectQuery().
		WillReturnRows(rows)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)

	slots, err := repo.GetRange(context.Background(), "hub-1", start, end)

	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, model.StatusConfirmed, slots[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSlotRepository_Release(t *testing.T) {
	t.Run("guard matches", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectExec(`UPDATE slots`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.Release(context.Background(), "slot-1", 4, model.StatusHeld)

		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale token is a no-op", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectExec(`UPDATE slots`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.Release(context.Background(), "slot-1", 3, model.StatusHeld)

		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSlotRepository_ConfirmTx(t *testing.T) {
	t.Run("confirms a held slot", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE slots`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		tx, err := db.Write.BeginTxx(context.Background(), nil)
		require.NoError(t, err)

		ok, err := repo.ConfirmTx(context.Background(), tx, "slot-1", 4)

		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, tx.Commit())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("guard miss after expiry", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := repository.New(db, mocks.NewOtel())

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE slots`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		tx, err := db.Write.BeginTxx(context.Background(), nil)
		require.NoError(t, err)

		ok, err := repo.ConfirmTx(context.Background(), tx, "slot-1", 2)

		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, tx.Rollback())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
