package create_date_constraint

import (
	"context"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	CreateConstraint(ctx context.Context, req *models.CreateConstraintRequest) (*models.ConstraintResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
