package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-AvailabilityService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	access      AccessPolicy
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, access AccessPolicy, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		access:      access,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Пользователь видит своё бронирование, мастер и менеджер - бронирования мастера
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != userID && !s.access.CanManageBarber(userID, booking.BarberID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d by user=%d, status=%v",
		req.UserID, req.RequesterID, req.Status)

	if req.RequesterID != req.UserID && !s.access.IsManager(req.RequesterID) {
		s.logger.Warn("GetUserBookings: user=%d cannot read bookings of user=%d", req.RequesterID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBarberBookings получает бронирования мастера с фильтрацией по периоду и статусу
// Доступно самому мастеру и менеджерам
func (s *Service) GetBarberBookings(ctx context.Context, req *models.GetBarberBookingsRequest) (*models.BookingListResponse, error) {
	var logMsg strings.Builder
	fmt.Fprintf(&logMsg, "GetBarberBookings: fetching bookings for barber=%s, user=%d", formatBarber(req.BarberID), req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		fmt.Fprintf(&logMsg, ", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		fmt.Fprintf(&logMsg, ", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg.WriteString(", includeInactive=true")
	}
	s.logger.Info(logMsg.String())

	if !s.access.CanManageBarber(req.UserID, req.BarberID) {
		s.logger.Warn("GetBarberBookings: user=%d cannot read bookings of barber=%s", req.UserID, formatBarber(req.BarberID))
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBarberBookings: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBarberBookings: repository error for barber=%s: %v", formatBarber(req.BarberID), err)
		return nil, fmt.Errorf("%w: GetBarberBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBarberBookings: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент отменяет своё бронирование (cancelled_by_user),
// мастер или менеджер - любое бронирование мастера (cancelled_by_business)
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: cancellation reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	var cancelStatus domain.BookingStatus
	switch {
	case booking.UserID == req.UserID:
		cancelStatus = domain.StatusCancelledByUser
	case s.access.CanManageBarber(req.UserID, booking.BarberID):
		cancelStatus = domain.StatusCancelledByBusiness
	default:
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found during cancellation", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func formatBarber(barberID *int64) string {
	if barberID == nil {
		return "shared"
	}
	return fmt.Sprintf("%d", *barberID)
}
