package create_date_constraint

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

var errPartialRange = errors.New("startTime and endTime must be set together")

// CreateConstraintRequest HTTP request model.
// Без startTime/endTime закрывается весь день (00:00-23:59).
type CreateConstraintRequest struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime *string `json:"startTime,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime   *string `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	Reason    *string `json:"reason,omitempty" validate:"omitempty,max=200"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CreateConstraintRequest) ToServiceRequest(userID int64, barberID *int64) (*models.CreateConstraintRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	if (r.StartTime == nil) != (r.EndTime == nil) {
		return nil, errPartialRange
	}

	start, end := types.NewTimeOfDay(0, 0), types.NewTimeOfDay(23, 59)
	if r.StartTime != nil {
		if start, err = types.ParseTimeOfDayStrict(*r.StartTime); err != nil {
			return nil, err
		}
		if end, err = types.ParseTimeOfDayStrict(*r.EndTime); err != nil {
			return nil, err
		}
	}

	return &models.CreateConstraintRequest{
		UserID:    userID,
		BarberID:  barberID,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Reason:    r.Reason,
	}, nil
}
