package update_settings

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidBarberID    = "некорректный ID мастера"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	service SettingsService
	logger  Logger
}

func NewHandler(service SettingsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/barbers/{barberId}/settings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("PATCH /barbers/{id}/settings - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /barbers/{id}/settings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateSettingsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /barbers/{id}/settings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PATCH /barbers/{id}/settings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.UpdateSettings(r.Context(), req.ToServiceRequest(userID, barberID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PATCH /barbers/{id}/settings - Invalid settings: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PATCH /barbers/{id}/settings - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PATCH /barbers/{id}/settings - Failed to update settings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /barbers/{id}/settings - Settings updated successfully: user_id=%d", userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
