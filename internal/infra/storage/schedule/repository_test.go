package schedule

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
	"github.com/m04kA/SMC-AvailabilityService/pkg/txmanager"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var day = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

func newRepo(t *testing.T) (*Repository, sqlmock.Sqlmock, *txmanager.TransactionManager) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db), mock, txmanager.NewTransactionManager(db)
}

func TestGetRulesByBarber(t *testing.T) {
	repo, mock, _ := newRepo(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .* FROM operating_hours_rules WHERE \(barber_id = \$1 OR barber_id IS NULL\) ORDER BY day_of_week ASC, open_time ASC`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(ruleColumns).
			AddRow(int64(1), nil, int64(1), "09:00:00", "17:00:00", int64(30), true, now, now))

	mock.ExpectQuery(`SELECT id, rule_id, start_time, end_time FROM rule_breaks WHERE rule_id IN \(\$1\)`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rule_id", "start_time", "end_time"}).
			AddRow(int64(10), int64(1), "12:00:00", "13:00:00"))

	rules, err := repo.GetRulesByBarber(context.Background(), ptr.Ptr(int64(3)))

	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.True(t, rules[0].IsShared())
	assert.Equal(t, time.Monday, rules[0].DayOfWeek)
	assert.Equal(t, types.NewTimeOfDay(9, 0), rules[0].OpenTime)
	require.Len(t, rules[0].Breaks, 1)
	assert.Equal(t, types.NewTimeOfDay(12, 0), rules[0].Breaks[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetRulesByBarber_NoRulesSkipsBreaksQuery(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`FROM operating_hours_rules WHERE barber_id IS NULL`).
		WillReturnRows(sqlmock.NewRows(ruleColumns))

	rules, err := repo.GetRulesByBarber(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, rules)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRule_ReplacesBreaks(t *testing.T) {
	repo, mock, tx := newRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO operating_hours_rules .* ON CONFLICT \(\(COALESCE\(barber_id, 0\)\), day_of_week\) DO UPDATE`).
		WithArgs(int64(3), 1, "10:00:00", "19:00:00", 45, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(5), now, now))
	mock.ExpectExec(`DELETE FROM rule_breaks WHERE rule_id = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectQuery(`INSERT INTO rule_breaks \(rule_id,start_time,end_time\) VALUES \(\$1,\$2,\$3\),\(\$4,\$5,\$6\) RETURNING id`).
		WithArgs(int64(5), "13:00:00", "14:00:00", int64(5), "16:00:00", "16:15:00").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(21)).AddRow(int64(22)))
	mock.ExpectCommit()

	rule := &domain.OperatingHoursRule{
		BarberID:            ptr.Ptr(int64(3)),
		DayOfWeek:           time.Monday,
		OpenTime:            types.NewTimeOfDay(10, 0),
		CloseTime:           types.NewTimeOfDay(19, 0),
		SlotDurationMinutes: 45,
		IsActive:            true,
		Breaks: []domain.Break{
			{StartTime: types.NewTimeOfDay(13, 0), EndTime: types.NewTimeOfDay(14, 0)},
			{StartTime: types.NewTimeOfDay(16, 0), EndTime: types.NewTimeOfDay(16, 15)},
		},
	}

	err := tx.Do(context.Background(), func(ctx context.Context) error {
		_, err := repo.UpsertRule(ctx, rule)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(5), rule.ID)
	assert.Equal(t, int64(22), rule.Breaks[1].ID)
	assert.Equal(t, int64(5), rule.Breaks[0].RuleID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConstraintsInRange(t *testing.T) {
	repo, mock, _ := newRepo(t)
	to := day.AddDate(0, 0, 13)

	mock.ExpectQuery(`SELECT .* FROM date_constraints WHERE \(barber_id = \$1 OR barber_id IS NULL\) AND constraint_date >= \$2 AND constraint_date <= \$3`).
		WithArgs(int64(3), day, to).
		WillReturnRows(sqlmock.NewRows(constraintColumns).
			AddRow(int64(1), int64(3), day, "00:00:00", "23:59:00", "vacation", time.Now()).
			AddRow(int64(2), nil, day, "12:00:00", "13:00:00", nil, time.Now()))

	constraints, err := repo.GetConstraintsInRange(context.Background(), ptr.Ptr(int64(3)), day, to)

	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, "vacation", *constraints[0].Reason)
	assert.True(t, constraints[1].IsGlobal())
	assert.Nil(t, constraints[1].Reason)
}

func TestCreateConstraint(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`INSERT INTO date_constraints \(barber_id,constraint_date,start_time,end_time,reason\) VALUES .* RETURNING id, created_at`).
		WithArgs(nil, day, "09:00:00", "11:00:00", "training").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	c, err := repo.CreateConstraint(context.Background(), &domain.DateConstraint{
		Date:      day,
		StartTime: types.NewTimeOfDay(9, 0),
		EndTime:   types.NewTimeOfDay(11, 0),
		Reason:    ptr.Ptr("training"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(8), c.ID)
}

func TestDeleteConstraint(t *testing.T) {
	repo, mock, _ := newRepo(t)

	mock.ExpectQuery(`DELETE FROM date_constraints WHERE id = \$1 RETURNING id, barber_id`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(constraintColumns).
			AddRow(int64(8), int64(3), day, "09:00:00", "11:00:00", nil, time.Now()))

	c, err := repo.DeleteConstraint(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3), *c.BarberID)

	mock.ExpectQuery(`DELETE FROM date_constraints`).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(constraintColumns))

	_, err = repo.DeleteConstraint(context.Background(), 9)
	assert.ErrorIs(t, err, ErrConstraintNotFound)
}
