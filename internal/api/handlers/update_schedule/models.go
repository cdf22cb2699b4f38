package update_schedule

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// UpsertRuleRequest HTTP request model: рабочие часы на день недели с перерывами
type UpsertRuleRequest struct {
	DayOfWeek           *int            `json:"dayOfWeek" validate:"required,min=0,max=6"` // 0 - воскресенье
	OpenTime            types.TimeOfDay `json:"openTime"`
	CloseTime           types.TimeOfDay `json:"closeTime"`
	Breaks              []Break         `json:"breaks,omitempty" validate:"omitempty,max=10,dive"`
	SlotDurationMinutes int             `json:"slotDurationMinutes,omitempty" validate:"omitempty,min=5,max=480"`
	IsActive            *bool           `json:"isActive,omitempty"`
}

// Break перерыв внутри рабочего дня
type Break struct {
	StartTime types.TimeOfDay `json:"startTime"`
	EndTime   types.TimeOfDay `json:"endTime"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpsertRuleRequest) ToServiceRequest(userID int64, barberID *int64) *models.UpsertRuleRequest {
	req := &models.UpsertRuleRequest{
		UserID:              userID,
		BarberID:            barberID,
		DayOfWeek:           time.Weekday(*r.DayOfWeek),
		OpenTime:            r.OpenTime,
		CloseTime:           r.CloseTime,
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsActive:            true,
	}
	if r.IsActive != nil {
		req.IsActive = *r.IsActive
	}
	for _, b := range r.Breaks {
		req.Breaks = append(req.Breaks, models.BreakRequest{StartTime: b.StartTime, EndTime: b.EndTime})
	}
	return req
}
