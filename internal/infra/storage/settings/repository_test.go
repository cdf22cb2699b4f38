package settings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock
}

func settingsRows(id int64, barberID interface{}, buffer int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(settingsColumns).
		AddRow(id, barberID, buffer, int64(30), int64(60), true, now, now)
}

func TestGetWithHierarchy_BarberLevel(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM booking_settings WHERE barber_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(settingsRows(2, int64(3), 15))

	s, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	assert.Equal(t, 15, s.BufferMinutes)
	assert.False(t, s.IsGlobal())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithHierarchy_FallsBackToGlobal(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`SELECT .* FROM booking_settings WHERE barber_id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(settingsColumns))
	mock.ExpectQuery(`SELECT .* FROM booking_settings WHERE barber_id IS NULL`).
		WillReturnRows(settingsRows(1, nil, 10))

	s, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	assert.True(t, s.IsGlobal())
	assert.Equal(t, 10, s.BufferMinutes)
	assert.True(t, s.IncludeSharedBookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetWithHierarchy_NotFound(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`WHERE barber_id IS NULL`).WillReturnRows(sqlmock.NewRows(settingsColumns))

	_, err := repo.GetWithHierarchy(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSettingsNotFound)
}

func TestGetWithHierarchy_DatabaseError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectQuery(`WHERE barber_id = \$1`).WillReturnError(errors.New("timeout"))

	_, err := repo.GetWithHierarchy(context.Background(), ptr.Ptr(int64(3)))
	assert.ErrorIs(t, err, ErrExecQuery)
}

func TestUpsert(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO booking_settings .* ON CONFLICT \(\(COALESCE\(barber_id, 0\)\)\) DO UPDATE SET`).
		WithArgs(nil, 20, 14, 120, false).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	s, err := repo.Upsert(context.Background(), &domain.BookingSettings{
		BufferMinutes:           20,
		AdvanceBookingDays:      14,
		MinBookingNoticeMinutes: 120,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), s.ID)
	assert.Equal(t, now, s.UpdatedAt)
}
