package catalog

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

// Repository каталог услуг барбершопа
type Repository struct {
	db txmanager.DBExecutor
}

// NewRepository создает новый экземпляр репозитория услуг
func NewRepository(db txmanager.DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetServiceByID получает услугу по ID
func (r *Repository) GetServiceByID(ctx context.Context, id int64) (*domain.Service, error) {
	executor := txmanager.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "duration_minutes", "price", "is_active").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - build select query: %v", ErrBuildQuery, err)
	}

	var s domain.Service
	err = executor.QueryRowContext(ctx, query, args...).
		Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.Price, &s.IsActive)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetServiceByID - scan service: %v", ErrScanRow, err)
	}

	return &s, nil
}
