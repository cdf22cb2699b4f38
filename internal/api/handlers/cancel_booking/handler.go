package cancel_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgCannotCancel       = "бронирование не может быть отменено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
// Тело запроса опционально: {"cancellationReason": "..."}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	err = h.service.Cancel(r.Context(), bookingID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d",
				bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrCannotCancel):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Cannot cancel: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgCannotCancel)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
