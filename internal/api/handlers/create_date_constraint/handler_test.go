package create_date_constraint

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/types"
)

type mockService struct{ mock.Mock }

func (m *mockService) CreateConstraint(ctx context.Context, req *models.CreateConstraintRequest) (*models.ConstraintResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.ConstraintResponse)
	return resp, args.Error(1)
}

func serve(h *Handler, barberID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/barbers/"+barberID+"/constraints", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"barberId": barberID})
	req = req.WithContext(middleware.WithUserID(req.Context(), 3))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestToServiceRequest_FullDayByDefault(t *testing.T) {
	req := &CreateConstraintRequest{Date: "2026-10-21"}

	got, err := req.ToServiceRequest(3, nil)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC), got.Date)
	assert.Equal(t, types.NewTimeOfDay(0, 0), got.StartTime)
	assert.Equal(t, types.NewTimeOfDay(23, 59), got.EndTime)
}

func TestHandle_Created(t *testing.T) {
	svc := &mockService{}
	barber := int64(3)
	reason := "врач"
	svc.On("CreateConstraint", mock.Anything, &models.CreateConstraintRequest{
		UserID:    3,
		BarberID:  &barber,
		Date:      time.Date(2026, 10, 21, 0, 0, 0, 0, time.UTC),
		StartTime: types.NewTimeOfDay(14, 0),
		EndTime:   types.NewTimeOfDay(16, 0),
		Reason:    &reason,
	}).Return(&models.ConstraintResponse{ID: 9}, nil)

	rec := serve(NewHandler(svc, logger.NewNop()), "3",
		`{"date":"2026-10-21","startTime":"14:00","endTime":"16:00","reason":"врач"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_BadRequest(t *testing.T) {
	for name, body := range map[string]string{
		"no date":       `{"startTime":"14:00","endTime":"16:00"}`,
		"bad date":      `{"date":"21.10.2026"}`,
		"only start":    `{"date":"2026-10-21","startTime":"14:00"}`,
		"bad end":       `{"date":"2026-10-21","startTime":"14:00","endTime":"4pm"}`,
		"unknown field": `{"date":"2026-10-21","allDay":true}`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &mockService{}
			rec := serve(NewHandler(svc, logger.NewNop()), "3", body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "CreateConstraint", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ServiceErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{schedule.ErrInvalidInput, http.StatusBadRequest},
		{schedule.ErrAccessDenied, http.StatusForbidden},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		svc := &mockService{}
		svc.On("CreateConstraint", mock.Anything, mock.Anything).Return(nil, tt.err)

		rec := serve(NewHandler(svc, logger.NewNop()), "0", `{"date":"2026-10-21"}`)

		assert.Equal(t, tt.wantStatus, rec.Code, tt.err.Error())
	}
}
