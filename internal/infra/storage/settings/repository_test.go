package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_GetBookingPolicy(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT value FROM clinic_settings WHERE key = \\$1").
		WithArgs(KeyBookingPolicy).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"maxAdvanceDays":30}`)))

	raw, err := repo.GetBookingPolicy(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, `{"maxAdvanceDays":30}`, string(raw))
}

func TestRepository_GetBookingPolicy_Absent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT value FROM clinic_settings").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))

	raw, err := repo.GetBookingPolicy(context.Background())
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRepository_GetBookingPolicy_Error(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectQuery("SELECT value FROM clinic_settings").
		WillReturnError(errors.New("relation does not exist"))

	_, err = repo.GetBookingPolicy(context.Background())
	assert.ErrorIs(t, err, ErrScanRow)
}

func TestRepository_SaveBookingPolicy(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	mock.ExpectExec("INSERT INTO clinic_settings \\(key,value\\) VALUES \\(\\$1,\\$2\\) ON CONFLICT \\(key\\) DO UPDATE").
		WithArgs(KeyBookingPolicy, `{"minAdvanceHours":4}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SaveBookingPolicy(context.Background(), []byte(`{"minAdvanceHours":4}`)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
