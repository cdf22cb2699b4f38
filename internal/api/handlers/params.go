package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

var (
	ErrMissingParam = errors.New("missing parameter")
	ErrInvalidParam = errors.New("invalid parameter")
)

// SharedBarberID значение barberId в пути, обозначающее общий ресурс заведения
const SharedBarberID = 0

// PathID положительный int64 из переменной маршрута
func PathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return 0, ErrMissingParam
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidParam
	}
	return id, nil
}

// PathBarberID barberId из пути: 0 означает общий ресурс (nil)
func PathBarberID(r *http.Request) (*int64, error) {
	raw, ok := mux.Vars(r)["barberId"]
	if !ok || raw == "" {
		return nil, ErrMissingParam
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return nil, ErrInvalidParam
	}
	if id == SharedBarberID {
		return nil, nil
	}
	return &id, nil
}

// QueryInt64 обязательный положительный int64 из query
func QueryInt64(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, ErrMissingParam
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidParam
	}
	return v, nil
}

// QueryDate дата YYYY-MM-DD из query; ok == false, если параметр не передан
func QueryDate(r *http.Request, name string) (date time.Time, ok bool, err error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, false, nil
	}

	date, err = time.Parse(domain.DateFormat, raw)
	if err != nil {
		return time.Time{}, true, ErrInvalidParam
	}
	return date, true, nil
}
