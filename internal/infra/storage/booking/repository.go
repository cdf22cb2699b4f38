package booking

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

// bookingColumns порядок колонок совпадает с порядком Scan в scanBooking
var bookingColumns = []string{
	"id",
	"user_id",
	"barber_id",
	"service_id",
	"booking_date",
	"start_time",
	"duration_minutes",
	"status",
	"service_name",
	"service_price",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её.
// Создание бронирования с проверкой доступности слота должно идти внутри транзакции вместе с GetByFilter.
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"barber_id",
			"service_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"status",
			"service_name",
			"service_price",
			"notes",
		).
		Values(
			booking.UserID,
			booking.BarberID,
			booking.ServiceID,
			booking.BookingDate,
			booking.StartTime,
			booking.DurationMinutes,
			booking.Status,
			booking.ServiceName,
			booking.ServicePrice,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUserID получает список бронирований пользователя
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("booking_date DESC, start_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUserID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// GetByFilter получает бронирования с гибкой фильтрацией
// Поддерживает фильтрацию по:
// - Мастеру (BarberID), с добавлением общих бронирований (WithShared) или только общие (OnlyShared)
// - Периоду (StartDate, EndDate) - опционально
// - Статусу (Status) - опционально
// - Включению неактивных бронирований (IncludeInactive)
//
// Примеры использования:
//
// 1. Активные бронирования мастера на дату вместе с общими:
//
//	filter := domain.BookingsFilter{BarberID: &id, WithShared: true, StartDate: &date, EndDate: &date}
//
// 2. Только бронирования без мастера за период:
//
//	filter := domain.BookingsFilter{OnlyShared: true, StartDate: &from, EndDate: &to}
//
// Внутри транзакции выборка на одну дату блокируется (FOR UPDATE) для usecase создания бронирования.
func (r *Repository) GetByFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings")

	// Фильтрация по мастеру
	switch {
	case filter.OnlyShared:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_id": nil})
	case filter.BarberID != nil && filter.WithShared:
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"barber_id": *filter.BarberID},
			squirrel.Eq{"barber_id": nil},
		})
	case filter.BarberID != nil:
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_id": *filter.BarberID})
	}

	// Фильтрация по периоду
	if filter.StartDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"booking_date": *filter.StartDate})
	}
	if filter.EndDate != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"booking_date": *filter.EndDate})
	}

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		// Если не указан конкретный статус и не нужны неактивные - исключаем их
		inactive := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactive[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactive})
	}

	if filter.IsSingleDate() {
		// Для конкретной даты сортируем по времени начала (ASC)
		selectBuilder = selectBuilder.OrderBy("start_time ASC")
	} else {
		selectBuilder = selectBuilder.OrderBy("booking_date DESC", "start_time DESC")
	}

	// Блокируем строки дня, чтобы параллельное создание бронирования дождалось нашей транзакции
	if txmanager.IsInTransaction(ctx) && filter.IsSingleDate() {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// Cancel отменяет бронирование с указанием причины
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanBooking сканирует одну строку в бронирование
func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.BarberID,
		&booking.ServiceID,
		&booking.BookingDate,
		&booking.StartTime,
		&booking.DurationMinutes,
		&booking.Status,
		&booking.ServiceName,
		&booking.ServicePrice,
		&booking.Notes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %v", ErrScanRow, err)
	}

	return bookings, nil
}
