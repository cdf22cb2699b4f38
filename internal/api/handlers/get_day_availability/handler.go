package get_day_availability

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	getDayAvailability "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_day_availability"
)

const (
	msgInvalidBarberID  = "некорректный ID мастера"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingFrom      = "дата начала обязательна"
	msgInvalidFrom      = "некорректный формат даты начала, ожидается YYYY-MM-DD"
	msgInvalidDays      = "некорректное количество дней"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата начала в прошлом"
)

type Handler struct {
	useCase GetDayAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase GetDayAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{barberId}/day-availability
// Query params: serviceId (required), from (required, YYYY-MM-DD), days (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/day-availability - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/day-availability - Invalid service ID: %v", err)
		if errors.Is(err, handlers.ErrMissingParam) {
			handlers.RespondBadRequest(w, msgMissingServiceID)
		} else {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		}
		return
	}

	from, ok, err := handlers.QueryDate(r, "from")
	if !ok {
		h.logger.Warn("GET /barbers/{id}/day-availability - Missing from")
		handlers.RespondBadRequest(w, msgMissingFrom)
		return
	}
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/day-availability - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFrom)
		return
	}

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days <= 0 {
			h.logger.Warn("GET /barbers/{id}/day-availability - Invalid days: %q", raw)
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getDayAvailability.Request{
		BarberID:  barberID,
		ServiceID: serviceID,
		From:      from,
		Days:      days,
	})
	if err != nil {
		switch {
		case errors.Is(err, getDayAvailability.ErrServiceNotFound):
			h.logger.Warn("GET /barbers/{id}/day-availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getDayAvailability.ErrInvalidDate):
			h.logger.Warn("GET /barbers/{id}/day-availability - From in past")
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getDayAvailability.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{id}/day-availability - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /barbers/{id}/day-availability - Failed to compute: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /barbers/{id}/day-availability - Summary computed: service_id=%d, days=%d",
		serviceID, len(result.Days))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
