package get_available_slots

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-AvailabilityService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type mockUseCase struct{ mock.Mock }

func (m *mockUseCase) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

func serve(h *Handler, barberID, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/barbers/"+barberID+"/available-slots?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"barberId": barberID})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_Success(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	barber := int64(3)

	uc.On("Execute", mock.Anything, &getAvailableSlots.Request{BarberID: &barber, ServiceID: 5, Date: date}).
		Return(&getAvailableSlots.Response{
			Date:            date,
			BarberID:        &barber,
			ServiceID:       5,
			DurationMinutes: 60,
			Slots: []domain.AvailableSlot{
				{StartTime: types.NewTimeOfDay(13, 0), DurationMinutes: 60},
				{StartTime: types.NewTimeOfDay(14, 0), DurationMinutes: 60},
			},
		}, nil)

	rec := serve(h, "3", "serviceId=5&date=2026-10-19")

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2026-10-19", body.Date)
	assert.Equal(t, int64(3), *body.BarberID)
	assert.Equal(t, []AvailableSlot{
		{StartTime: "13:00", EndTime: "14:00", DurationMinutes: 60},
		{StartTime: "14:00", EndTime: "15:00", DurationMinutes: 60},
	}, body.Slots)
	uc.AssertExpectations(t)
}

func TestHandle_SharedBarber(t *testing.T) {
	uc := &mockUseCase{}
	h := NewHandler(uc, logger.NewNop())

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.BarberID == nil
	})).Return(&getAvailableSlots.Response{Slots: []domain.AvailableSlot{}}, nil)

	rec := serve(h, "0", "serviceId=5&date=2026-10-19")

	assert.Equal(t, http.StatusOK, rec.Code)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequest(t *testing.T) {
	tests := []struct {
		name     string
		barberID string
		query    string
	}{
		{"invalid barber", "abc", "serviceId=5&date=2026-10-19"},
		{"negative barber", "-2", "serviceId=5&date=2026-10-19"},
		{"missing service", "3", "date=2026-10-19"},
		{"invalid service", "3", "serviceId=x&date=2026-10-19"},
		{"missing date", "3", "serviceId=5"},
		{"invalid date", "3", "serviceId=5&date=19.10.2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := serve(NewHandler(uc, logger.NewNop()), tt.barberID, tt.query)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"service not found", getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{"date in past", getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{"too far", getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{"invalid input", getAvailableSlots.ErrInvalidInput, http.StatusBadRequest},
		{"internal", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := serve(NewHandler(uc, logger.NewNop()), "3", "serviceId=5&date=2026-10-19")

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
