package update_schedule

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
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/barbers/{barberId}/schedule
// Создает или заменяет правило на день недели. barberId = 0 - расписание заведения (только менеджеры)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /barbers/{id}/schedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpsertRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("PUT /barbers/{id}/schedule - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	result, err := h.service.UpsertRule(r.Context(), req.ToServiceRequest(userID, barberID))
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /barbers/{id}/schedule - Invalid rule: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("PUT /barbers/{id}/schedule - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("PUT /barbers/{id}/schedule - Failed to save rule: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /barbers/{id}/schedule - Rule saved successfully: rule_id=%d, user_id=%d", result.ID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
