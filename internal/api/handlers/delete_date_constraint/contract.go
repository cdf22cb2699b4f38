package delete_date_constraint

import (
	"context"
)

type ScheduleService interface {
	DeleteConstraint(ctx context.Context, id int64, userID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
