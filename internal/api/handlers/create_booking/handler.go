package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidTime        = "некорректный формат времени начала, ожидается HH:MM"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgServiceNotFound    = "услуга не найдена"
	msgBarberNotWorking   = "мастер не работает в выбранную дату"
	msgInvalidBookingDate = "некорректная дата бронирования"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgTooLateToBook      = "слишком поздно для бронирования этого слота"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := handlers.Validate(&req); err != nil {
		h.logger.Warn("POST /bookings - Validation failed: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: user_id=%d, start=%s", userID, req.StartTime)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: user_id=%d, service_id=%d", userID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createBooking.ErrBarberNotWorking):
			h.logger.Warn("POST /bookings - Barber not working: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgBarberNotWorking)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			h.logger.Warn("POST /bookings - Date too far in future: user_id=%d, date=%s", userID, req.BookingDate)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: user_id=%d, start=%s", userID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d",
		result.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
