package get_barber_bookings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings"
)

const (
	msgInvalidBarberID = "некорректный ID мастера"
	msgMissingUserID   = "отсутствует ID пользователя"
	msgInvalidParams   = "некорректные параметры запроса"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/barbers/{barberId}/bookings
// Query params: date | startDate+endDate, status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/bookings - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /barbers/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(barberID, userID, r.URL.Query())
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	// Сервис сам проверит права мастера или менеджера
	result, err := h.service.GetBarberBookings(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /barbers/{id}/bookings - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{id}/bookings - Invalid filter: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /barbers/{id}/bookings - Failed to get bookings: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /barbers/{id}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result.Bookings)
}
