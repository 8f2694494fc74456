package attendance_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pacs-portal/internal/attendance"
	attendanceerrors "pacs-portal/internal/attendance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAttendanceService struct {
	ClockInFn         func(ctx context.Context, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error)
	ClockOutFn        func(ctx context.Context, employeeID string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error)
	GetHistoryFn      func(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error)
	GetTodayFn        func(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error)
	GetTodaySummaryFn func(ctx context.Context) (attendance.TodaySummary, error)
	GetTodayRecordsFn func(ctx context.Context) ([]attendance.AttendanceResponse, error)
}

func (f *fakeAttendanceService) ClockIn(ctx context.Context, employeeID string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
	return f.ClockInFn(ctx, employeeID, req)
}
func (f *fakeAttendanceService) ClockOut(ctx context.Context, employeeID string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
	return f.ClockOutFn(ctx, employeeID, req)
}
func (f *fakeAttendanceService) GetHistory(ctx context.Context, employeeID string) ([]attendance.AttendanceResponse, error) {
	return f.GetHistoryFn(ctx, employeeID)
}
func (f *fakeAttendanceService) GetToday(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	return f.GetTodayFn(ctx, employeeID)
}
func (f *fakeAttendanceService) GetTodaySummary(ctx context.Context) (attendance.TodaySummary, error) {
	return f.GetTodaySummaryFn(ctx)
}
func (f *fakeAttendanceService) GetTodayRecords(ctx context.Context) ([]attendance.AttendanceResponse, error) {
	return f.GetTodayRecordsFn(ctx)
}

func TestAttendanceHandler_ClockIn(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				assert.Equal(t, employeeID, eid)
				return attendance.AttendanceResponse{
					ID:          uuid.NewString(),
					EmployeeID:  eid,
					Status:      attendance.StatusPresent,
					WorkedHours: "In Progress",
				}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/clock-in", nil)
		c.Set("employee_id", employeeID)

		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "In Progress")
	})

	t.Run("duplicate returns conflict", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/clock-in", nil)
		c.Set("employee_id", uuid.NewString())

		h.ClockIn(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Already clocked in")
	})

	t.Run("notes are forwarded", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockInFn: func(ctx context.Context, eid string, req attendance.ClockInRequest) (attendance.AttendanceResponse, error) {
				assert.NotNil(t, req.Notes)
				assert.Equal(t, "working from the depot", *req.Notes)
				return attendance.AttendanceResponse{ID: uuid.NewString()}, nil
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		body := `{"notes":"working from the depot"}`
		req := httptest.NewRequest(http.MethodPost, "/attendance/clock-in", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Set("employee_id", uuid.NewString())

		h.ClockIn(c)

		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestAttendanceHandler_ClockOut(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("no open record returns not found", func(t *testing.T) {
		svc := &fakeAttendanceService{
			ClockOutFn: func(ctx context.Context, eid string, req attendance.ClockOutRequest) (attendance.AttendanceResponse, error) {
				return attendance.AttendanceResponse{}, attendanceerrors.ErrNotClockedIn
			},
		}

		h := attendance.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/attendance/clock-out", nil)
		c.Set("employee_id", uuid.NewString())

		h.ClockOut(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAttendanceHandler_GetTodaySummary(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeAttendanceService{
		GetTodaySummaryFn: func(ctx context.Context) (attendance.TodaySummary, error) {
			return attendance.TodaySummary{Total: 12, Present: 9, Absent: 3, Late: 2}, nil
		},
	}

	h := attendance.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/today/summary", nil)

	h.GetTodaySummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":12`)
	assert.Contains(t, w.Body.String(), `"absent":3`)
}
