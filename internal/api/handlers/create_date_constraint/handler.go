package create_date_constraint

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

// Handle POST /api/v1/barbers/{barberId}/constraints
// barberId = 0 - ограничение для всех мастеров (только менеджеры)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("POST /barbers/{id}/constraints - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /barbers/{id}/constraints - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateConstraintRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /barbers/{id}/constraints - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /barbers/{id}/constraints - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	serviceReq, err := req.ToServiceRequest(userID, barberID)
	if err != nil {
		h.logger.Warn("POST /barbers/{id}/constraints - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateConstraint(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /barbers/{id}/constraints - Invalid constraint: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("POST /barbers/{id}/constraints - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /barbers/{id}/constraints - Failed to create constraint: user_id=%d, error=%v",
				userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /barbers/{id}/constraints - Constraint created successfully: constraint_id=%d, user_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
