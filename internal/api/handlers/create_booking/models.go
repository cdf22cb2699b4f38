package create_booking

import (
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	createBooking "github.com/m04kA/SMC-AvailabilityService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	BarberID    *int64  `json:"barberId,omitempty" validate:"omitempty,gt=0"` // без мастера - общий ресурс
	ServiceID   int64   `json:"serviceId" validate:"required,gt=0"`
	BookingDate string  `json:"bookingDate" validate:"required,datetime=2006-01-02"` // "2026-10-19"
	StartTime   string  `json:"startTime" validate:"required,datetime=15:04"`        // "10:00"
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64   `json:"id"`
	UserID          int64   `json:"userId"`
	BarberID        *int64  `json:"barberId,omitempty"`
	ServiceID       int64   `json:"serviceId"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	ServiceName     string  `json:"serviceName"`
	ServicePrice    float64 `json:"servicePrice"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.ParseTimeOfDayStrict(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:    userID,
		BarberID:  r.BarberID,
		ServiceID: r.ServiceID,
		Date:      bookingDate,
		StartTime: startTime,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		UserID:          resp.UserID,
		BarberID:        resp.BarberID,
		ServiceID:       resp.ServiceID,
		BookingDate:     resp.BookingDate.Format(domain.DateFormat),
		StartTime:       resp.StartTime.String(),
		EndTime:         (resp.StartTime + types.TimeOfDay(resp.DurationMinutes)).String(),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ServiceName:     resp.ServiceName,
		ServicePrice:    resp.ServicePrice,
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
