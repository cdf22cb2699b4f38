package delete_date_constraint

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidConstraintID = "некорректный ID ограничения"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgNotFound            = "ограничение не найдено"
	msgForbidden           = "доступ запрещен"
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

// Handle DELETE /api/v1/constraints/{constraintId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	constraintID, err := handlers.PathID(r, "constraintId")
	if err != nil {
		h.logger.Warn("DELETE /constraints/{id} - Invalid constraint ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidConstraintID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /constraints/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteConstraint(r.Context(), constraintID, userID); err != nil {
		switch {
		case errors.Is(err, schedule.ErrConstraintNotFound):
			h.logger.Warn("DELETE /constraints/{id} - Constraint not found: constraint_id=%d", constraintID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedule.ErrAccessDenied):
			h.logger.Warn("DELETE /constraints/{id} - Access denied: constraint_id=%d, user_id=%d",
				constraintID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("DELETE /constraints/{id} - Failed to delete constraint: constraint_id=%d, error=%v",
				constraintID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /constraints/{id} - Constraint deleted successfully: constraint_id=%d, user_id=%d",
		constraintID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
