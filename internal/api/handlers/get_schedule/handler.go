package get_schedule

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

const (
	msgInvalidBarberID = "некорректный ID мастера"
	msgInvalidParams   = "некорректные параметры запроса"
)

type Handler struct {
	service ScheduleService
	logger  Logger
	now     func() time.Time
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle GET /api/v1/barbers/{barberId}/schedule
// Query params: from, to (опционально, YYYY-MM-DD) - период для ограничений на даты.
// По умолчанию ближайшие domain.DefaultHorizonDays дней.
// Публичный endpoint - без авторизации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/schedule - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	from, to, err := h.period(r)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/schedule - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), barberID, from, to)
	if err != nil {
		h.logger.Error("GET /barbers/{id}/schedule - Failed to get schedule: error=%v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /barbers/{id}/schedule - Schedule retrieved successfully: rules=%d, constraints=%d",
		len(result.Rules), len(result.Constraints))
	handlers.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) period(r *http.Request) (time.Time, time.Time, error) {
	from, ok, err := handlers.QueryDate(r, "from")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		from = domain.DateOnly(h.now())
	}

	to, ok, err := handlers.QueryDate(r, "to")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !ok {
		to = from.AddDate(0, 0, domain.DefaultHorizonDays-1)
	}

	if to.Before(from) {
		return time.Time{}, time.Time{}, handlers.ErrInvalidParam
	}
	return from, to, nil
}
