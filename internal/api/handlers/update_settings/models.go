package update_settings

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// UpdateSettingsRequest HTTP request model; обновляются только переданные поля
type UpdateSettingsRequest struct {
	BufferMinutes           *int  `json:"bufferMinutes,omitempty" validate:"omitempty,min=0,max=240"`
	AdvanceBookingDays      *int  `json:"advanceBookingDays,omitempty" validate:"omitempty,min=0,max=365"`
	MinBookingNoticeMinutes *int  `json:"minBookingNoticeMinutes,omitempty" validate:"omitempty,min=0,max=10080"`
	IncludeSharedBookings   *bool `json:"includeSharedBookings,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(userID int64, barberID *int64) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		UserID:                  userID,
		BarberID:                barberID,
		BufferMinutes:           r.BufferMinutes,
		AdvanceBookingDays:      r.AdvanceBookingDays,
		MinBookingNoticeMinutes: r.MinBookingNoticeMinutes,
		IncludeSharedBookings:   r.IncludeSharedBookings,
	}
}
