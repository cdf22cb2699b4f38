package cancel_booking

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty" validate:"omitempty,max=500"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *CancelBookingRequest) ToServiceRequest(userID int64) *models.CancelBookingRequest {
	reason := ""
	if r.CancellationReason != nil {
		reason = *r.CancellationReason
	}

	return &models.CancelBookingRequest{
		UserID:             userID,
		CancellationReason: reason,
	}
}
