package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда начало периода позже конца
	ErrInvalidPeriod = errors.New("start date is after end date")
)

// Request модели

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	UserID             int64  `json:"userId"`
	CancellationReason string `json:"cancellationReason"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID      int64   `json:"userId"`
	RequesterID int64   `json:"-"`
	Status      *string `json:"status,omitempty"`
}

// GetBarberBookingsRequest запрос на получение бронирований мастера
type GetBarberBookingsRequest struct {
	UserID          int64      `json:"userId"`
	BarberID        *int64     `json:"barberId,omitempty"`        // nil - общий ресурс заведения
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetBarberBookingsRequest) ToDomainFilter() (domain.BookingsFilter, error) {
	filter := domain.BookingsFilter{
		BarberID:        r.BarberID,
		OnlyShared:      r.BarberID == nil,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.StartDate != nil && r.EndDate != nil && r.StartDate.After(*r.EndDate) {
		return filter, ErrInvalidPeriod
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64  `json:"id"`
	UserID          int64  `json:"userId"`
	BarberID        *int64 `json:"barberId,omitempty"`
	ServiceID       int64  `json:"serviceId"`
	BookingDate     string `json:"bookingDate"` // "2026-10-19"
	StartTime       string `json:"startTime"`   // "10:00"
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`

	// Денормализованные данные
	ServiceName  string  `json:"serviceName"`
	ServicePrice float64 `json:"servicePrice"`
	Notes        *string `json:"notes,omitempty"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601 format

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		BarberID:           b.BarberID,
		ServiceID:          b.ServiceID,
		BookingDate:        b.BookingDate.Format(domain.DateFormat),
		StartTime:          b.StartTime.String(),
		EndTime:            b.EndTime().String(),
		DurationMinutes:    b.DurationMinutes,
		Status:             string(b.Status),
		ServiceName:        b.ServiceName,
		ServicePrice:       b.ServicePrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	validStatuses := []domain.BookingStatus{
		domain.StatusPending,
		domain.StatusConfirmed,
		domain.StatusInProgress,
		domain.StatusCompleted,
		domain.StatusCancelledByUser,
		domain.StatusCancelledByBusiness,
		domain.StatusNoShow,
	}

	for _, valid := range validStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
