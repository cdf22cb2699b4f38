package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
)

var ruleColumns = []string{
	"id",
	"barber_id",
	"day_of_week",
	"open_time",
	"close_time",
	"slot_duration_minutes",
	"is_active",
	"created_at",
	"updated_at",
}

var constraintColumns = []string{
	"id",
	"barber_id",
	"constraint_date",
	"start_time",
	"end_time",
	"reason",
	"created_at",
}

// Repository репозиторий расписания: недельные правила с перерывами и ограничения на даты
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// barberScope условие по мастеру: правила/ограничения мастера плюс общие.
// Для barberID == nil только общие.
func barberScope(barberID *int64) squirrel.Sqlizer {
	if barberID == nil {
		return squirrel.Eq{"barber_id": nil}
	}
	return squirrel.Or{
		squirrel.Eq{"barber_id": *barberID},
		squirrel.Eq{"barber_id": nil},
	}
}

// GetRulesByBarber получает недельные правила мастера вместе с общими правилами заведения.
// Какие из них применять на конкретную дату, решает движок доступности.
func (r *Repository) GetRulesByBarber(ctx context.Context, barberID *int64) ([]*domain.OperatingHoursRule, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From("operating_hours_rules").
		Where(barberScope(barberID)).
		OrderBy("day_of_week ASC", "open_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByBarber - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetRulesByBarber - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.OperatingHoursRule, 0)
	byID := make(map[int64]*domain.OperatingHoursRule)

	for rows.Next() {
		var rule domain.OperatingHoursRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.BarberID,
			&rule.DayOfWeek,
			&rule.OpenTime,
			&rule.CloseTime,
			&rule.SlotDurationMinutes,
			&rule.IsActive,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetRulesByBarber - scan row: %v", ErrScanRow, err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time

		rules = append(rules, &rule)
		byID[rule.ID] = &rule
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetRulesByBarber - rows error: %v", ErrScanRow, err)
	}

	if len(rules) == 0 {
		return rules, nil
	}

	if err := r.attachBreaks(ctx, executor, byID); err != nil {
		return nil, err
	}

	return rules, nil
}

// attachBreaks подгружает перерывы одним запросом
func (r *Repository) attachBreaks(ctx context.Context, executor txmanager.DBExecutor, byID map[int64]*domain.OperatingHoursRule) error {
	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	query, args, err := psqlbuilder.Select("id", "rule_id", "start_time", "end_time").
		From("rule_breaks").
		Where(squirrel.Eq{"rule_id": ids}).
		OrderBy("rule_id ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.Break
		if err := rows.Scan(&b.ID, &b.RuleID, &b.StartTime, &b.EndTime); err != nil {
			return fmt.Errorf("%w: attachBreaks - scan row: %v", ErrScanRow, err)
		}
		if rule, ok := byID[b.RuleID]; ok {
			rule.Breaks = append(rule.Breaks, b)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachBreaks - rows error: %v", ErrScanRow, err)
	}

	return nil
}

// UpsertRule создает или заменяет правило мастера на день недели вместе с перерывами.
// Вызывать внутри транзакции: перерывы удаляются и вставляются заново.
func (r *Repository) UpsertRule(ctx context.Context, rule *domain.OperatingHoursRule) (*domain.OperatingHoursRule, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("operating_hours_rules").
		Columns(
			"barber_id",
			"day_of_week",
			"open_time",
			"close_time",
			"slot_duration_minutes",
			"is_active",
		).
		Values(
			rule.BarberID,
			int(rule.DayOfWeek),
			rule.OpenTime,
			rule.CloseTime,
			rule.SlotDurationMinutes,
			rule.IsActive,
		).
		Suffix(`ON CONFLICT ((COALESCE(barber_id, 0)), day_of_week) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - execute insert: %v", ErrExecQuery, err)
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	// Перерывы заменяем целиком
	query, args, err = psqlbuilder.Delete("rule_breaks").
		Where(squirrel.Eq{"rule_id": rule.ID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build delete breaks query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - delete breaks: %v", ErrExecQuery, err)
	}

	if len(rule.Breaks) == 0 {
		return rule, nil
	}

	insertBreaks := psqlbuilder.Insert("rule_breaks").
		Columns("rule_id", "start_time", "end_time")
	for _, b := range rule.Breaks {
		insertBreaks = insertBreaks.Values(rule.ID, b.StartTime, b.EndTime)
	}

	query, args, err = insertBreaks.Suffix("RETURNING id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - build insert breaks query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - insert breaks: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for i := 0; rows.Next() && i < len(rule.Breaks); i++ {
		if err := rows.Scan(&rule.Breaks[i].ID); err != nil {
			return nil, fmt.Errorf("%w: UpsertRule - scan break id: %v", ErrScanRow, err)
		}
		rule.Breaks[i].RuleID = rule.ID
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: UpsertRule - rows error: %v", ErrScanRow, err)
	}

	return rule, nil
}

// GetConstraintsInRange получает ограничения мастера и глобальные ограничения на даты [from, to]
func (r *Repository) GetConstraintsInRange(ctx context.Context, barberID *int64, from, to time.Time) ([]*domain.DateConstraint, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(constraintColumns...).
		From("date_constraints").
		Where(barberScope(barberID)).
		Where(squirrel.GtOrEq{"constraint_date": from}).
		Where(squirrel.LtOrEq{"constraint_date": to}).
		OrderBy("constraint_date ASC", "start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConstraintsInRange - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetConstraintsInRange - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	constraints := make([]*domain.DateConstraint, 0)
	for rows.Next() {
		var c domain.DateConstraint
		var createdAt sql.NullTime

		err := rows.Scan(&c.ID, &c.BarberID, &c.Date, &c.StartTime, &c.EndTime, &c.Reason, &createdAt)
		if err != nil {
			return nil, fmt.Errorf("%w: GetConstraintsInRange - scan row: %v", ErrScanRow, err)
		}
		c.CreatedAt = createdAt.Time

		constraints = append(constraints, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetConstraintsInRange - rows error: %v", ErrScanRow, err)
	}

	return constraints, nil
}

// CreateConstraint создает ограничение на дату
func (r *Repository) CreateConstraint(ctx context.Context, c *domain.DateConstraint) (*domain.DateConstraint, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("date_constraints").
		Columns("barber_id", "constraint_date", "start_time", "end_time", "reason").
		Values(c.BarberID, c.Date, c.StartTime, c.EndTime, c.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateConstraint - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: CreateConstraint - execute insert: %v", ErrExecQuery, err)
	}
	c.CreatedAt = createdAt.Time

	return c, nil
}

// DeleteConstraint удаляет ограничение и возвращает удаленную запись (нужна для инвалидации кэша)
func (r *Repository) DeleteConstraint(ctx context.Context, id int64) (*domain.DateConstraint, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("date_constraints").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(constraintColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteConstraint - build delete query: %v", ErrBuildQuery, err)
	}

	var c domain.DateConstraint
	var createdAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&c.ID, &c.BarberID, &c.Date, &c.StartTime, &c.EndTime, &c.Reason, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConstraintNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteConstraint - execute delete: %v", ErrExecQuery, err)
	}
	c.CreatedAt = createdAt.Time

	return &c, nil
}
