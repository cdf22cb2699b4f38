package get_user_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
	msgInvalidStatus = "некорректный статус бронирования"
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

// Handle GET /api/v1/users/{userId}/bookings
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	requesterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{userId}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var statusPtr *string
	if status := r.URL.Query().Get("status"); status != "" {
		statusPtr = &status
	}

	result, err := h.service.GetUserBookings(r.Context(), &models.GetUserBookingsRequest{
		UserID:      userID,
		RequesterID: requesterID,
		Status:      statusPtr,
	})
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{userId}/bookings - Access denied: user_id=%d, requester_id=%d",
				userID, requesterID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{userId}/bookings - Invalid status: %v", err)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{userId}/bookings - Failed to get bookings: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{userId}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
