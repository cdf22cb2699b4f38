package get_barber_bookings

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/bookings/models"
)

var errDateWithPeriod = errors.New("date cannot be combined with startDate/endDate")

// ToServiceRequest формирует запрос к сервису из query параметров.
// date задает один день; startDate и endDate - период (любая граница опциональна).
func ToServiceRequest(barberID *int64, userID int64, query url.Values) (*models.GetBarberBookingsRequest, error) {
	req := &models.GetBarberBookingsRequest{
		UserID:   userID,
		BarberID: barberID,
	}

	date, err := parseDate(query.Get("date"))
	if err != nil {
		return nil, err
	}
	start, err := parseDate(query.Get("startDate"))
	if err != nil {
		return nil, err
	}
	end, err := parseDate(query.Get("endDate"))
	if err != nil {
		return nil, err
	}

	if date != nil {
		if start != nil || end != nil {
			return nil, errDateWithPeriod
		}
		start, end = date, date
	}
	req.StartDate = start
	req.EndDate = end

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if raw := query.Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(domain.DateFormat, raw)
	if err != nil {
		return nil, err
	}
	return &date, nil
}
