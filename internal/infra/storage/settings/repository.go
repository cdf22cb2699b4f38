package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

var settingsColumns = []string{
	"id",
	"barber_id",
	"buffer_minutes",
	"advance_booking_days",
	"min_booking_notice_minutes",
	"include_shared_bookings",
	"created_at",
	"updated_at",
}

// Repository репозиторий настроек бронирования
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByBarber получает настройки ровно этого уровня: мастера или общие (barberID == nil)
func (r *Repository) GetByBarber(ctx context.Context, barberID *int64) (*domain.BookingSettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(settingsColumns...).
		From("booking_settings")

	// Фильтрация по barber_id (NULL или конкретное значение)
	if barberID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_id": *barberID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarber - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.BookingSettings
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&s.ID,
		&s.BarberID,
		&s.BufferMinutes,
		&s.AdvanceBookingDays,
		&s.MinBookingNoticeMinutes,
		&s.IncludeSharedBookings,
		&createdAt,
		&updatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByBarber - scan settings: %v", ErrScanRow, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}

// GetWithHierarchy получает настройки с учетом иерархии приоритетов
// 1. Настройки конкретного мастера
// 2. Общие настройки заведения (barber_id NULL)
//
// Если настройки не найдены ни на одном уровне, возвращает ErrSettingsNotFound
func (r *Repository) GetWithHierarchy(ctx context.Context, barberID *int64) (*domain.BookingSettings, error) {
	// 1. Настройки мастера
	if barberID != nil {
		s, err := r.GetByBarber(ctx, barberID)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrSettingsNotFound) {
			return nil, fmt.Errorf("%w: GetWithHierarchy - level 1 (barber): %v", ErrExecQuery, err)
		}
	}

	// 2. Общие настройки
	s, err := r.GetByBarber(ctx, nil)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrSettingsNotFound) {
		return nil, fmt.Errorf("%w: GetWithHierarchy - level 2 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrSettingsNotFound
}

// Upsert создает или обновляет настройки уровня s.BarberID
func (r *Repository) Upsert(ctx context.Context, s *domain.BookingSettings) (*domain.BookingSettings, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_settings").
		Columns(
			"barber_id",
			"buffer_minutes",
			"advance_booking_days",
			"min_booking_notice_minutes",
			"include_shared_bookings",
		).
		Values(
			s.BarberID,
			s.BufferMinutes,
			s.AdvanceBookingDays,
			s.MinBookingNoticeMinutes,
			s.IncludeSharedBookings,
		).
		Suffix(`ON CONFLICT ((COALESCE(barber_id, 0))) DO UPDATE SET
			buffer_minutes = EXCLUDED.buffer_minutes,
			advance_booking_days = EXCLUDED.advance_booking_days,
			min_booking_notice_minutes = EXCLUDED.min_booking_notice_minutes,
			include_shared_bookings = EXCLUDED.include_shared_bookings,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute insert: %v", ErrExecQuery, err)
	}

	s.CreatedAt = createdAt.Time
	s.UpdatedAt = updatedAt.Time

	return s, nil
}
