package update_settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/middleware"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
	"github.com/m04kA/SMC-AvailabilityService/pkg/logger"
	"github.com/m04kA/SMC-AvailabilityService/pkg/ptr"
)

type mockService struct{ mock.Mock }

func (m *mockService) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.SettingsResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.SettingsResponse)
	return resp, args.Error(1)
}

func serve(h *Handler, barberID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/barbers/"+barberID+"/settings", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"barberId": barberID})
	req = req.WithContext(middleware.WithUserID(req.Context(), 1))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandle_PartialUpdate(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateSettings", mock.Anything, &models.UpdateSettingsRequest{
		UserID:        1,
		BufferMinutes: ptr.Ptr(15),
	}).Return(&models.SettingsResponse{BufferMinutes: 15}, nil)

	rec := serve(NewHandler(svc, logger.NewNop()), "0", `{"bufferMinutes":15}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Rejected(t *testing.T) {
	svc := &mockService{}
	h := NewHandler(svc, logger.NewNop())

	assert.Equal(t, http.StatusBadRequest, serve(h, "3", `{"bufferMinutes":-5}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(h, "3", `{"advanceBookingDays":1000}`).Code)
	svc.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything)

	svc.On("UpdateSettings", mock.Anything, mock.Anything).Return(nil, schedule.ErrAccessDenied)
	assert.Equal(t, http.StatusForbidden, serve(h, "3", `{"includeSharedBookings":false}`).Code)
}
