package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
)

const (
	msgInvalidBarberID  = "некорректный ID мастера"
	msgInvalidServiceID = "некорректный ID услуги"
	msgMissingServiceID = "ID услуги обязателен"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата в прошлом"
	msgDateTooFar       = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/barbers/{barberId}/available-slots
// Query params: serviceId (required), date (required, YYYY-MM-DD)
// barberId = 0 - общий ресурс заведения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathBarberID(r)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/available-slots - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/available-slots - Invalid service ID: %v", err)
		if errors.Is(err, handlers.ErrMissingParam) {
			handlers.RespondBadRequest(w, msgMissingServiceID)
		} else {
			handlers.RespondBadRequest(w, msgInvalidServiceID)
		}
		return
	}

	date, ok, err := handlers.QueryDate(r, "date")
	if !ok {
		h.logger.Warn("GET /barbers/{id}/available-slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/available-slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), ToUseCaseRequest(barberID, serviceID, date))
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /barbers/{id}/available-slots - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /barbers/{id}/available-slots - Date in past: date=%s", date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			h.logger.Warn("GET /barbers/{id}/available-slots - Date too far: date=%s", date.Format(domain.DateFormat))
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{id}/available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /barbers/{id}/available-slots - Failed to get slots: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /barbers/{id}/available-slots - Slots retrieved successfully: service_id=%d, date=%s, slots_count=%d",
		serviceID, date.Format(domain.DateFormat), len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
