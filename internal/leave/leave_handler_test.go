package leave_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"pacs-portal/internal/leave"
	leaveerrors "pacs-portal/internal/leave/errors"
	"pacs-portal/internal/middleware"
	"pacs-portal/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type fakeLeaveService struct {
	SubmitFn     func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	GetHistoryFn func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	GetPendingFn func(ctx context.Context) ([]leave.LeaveResponse, error)
	ApproveFn    func(ctx context.Context, id, reviewerID string) (leave.LeaveResponse, error)
	RejectFn     func(ctx context.Context, id, reviewerID string) (leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.SubmitFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) GetHistory(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.GetHistoryFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetPending(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.GetPendingFn(ctx)
}
func (f *fakeLeaveService) Approve(ctx context.Context, id, reviewerID string) (leave.LeaveResponse, error) {
	return f.ApproveFn(ctx, id, reviewerID)
}
func (f *fakeLeaveService) Reject(ctx context.Context, id, reviewerID string) (leave.LeaveResponse, error) {
	return f.RejectFn(ctx, id, reviewerID)
}

func newJSONContext(t *testing.T, method, target, body, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != "" {
		c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		c.Set("user_id", userID)
	}
	return c, w
}

func TestLeaveHandler_Submit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, leave.TypeVacation, req.LeaveType)
				return leave.LeaveResponse{
					ID:        uuid.NewString(),
					Status:    leave.StatusPending,
					DaysCount: 3,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests",
			`{"leave_type":"vacation","start_date":"2024-01-10","end_date":"2024-01-12","reason":"Family trip"}`,
			employeeID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"days_count":3`)
		assert.Contains(t, w.Body.String(), leave.StatusPending)
	})

	t.Run("malformed date fails validation", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service should not be called on invalid input")
				return leave.LeaveResponse{}, nil
			},
		})
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests",
			`{"leave_type":"vacation","start_date":"Jan 10","end_date":"2024-01-12","reason":"x"}`,
			uuid.NewString())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("inverted range returns bad request", func(t *testing.T) {
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidDateRange
			},
		}

		h := leave.NewHandler(svc)
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests",
			`{"leave_type":"sick","start_date":"2024-01-12","end_date":"2024-01-10","reason":"oops"}`,
			uuid.NewString())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "End date must not be before start date")
	})

	t.Run("missing identity returns unauthorized", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests", `{}`, "")

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLeaveHandler_SubmitIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	employeeID := uuid.NewString()
	res := leave.LeaveResponse{
		ID:        uuid.NewString(),
		Status:    leave.StatusPending,
		DaysCount: 3,
	}
	envelope, err := json.Marshal(response.ApiEnvelope{Ok: true, Data: res})
	assert.NoError(t, err)

	cacheKey := fmt.Sprintf("idemp:%s:%s:%s", "/leave-requests", employeeID, "retry-xyz")
	lockKey := cacheKey + ":lock"
	body := `{"leave_type":"vacation","start_date":"2024-01-10","end_date":"2024-01-12","reason":"Family trip"}`

	newRouter := func(rdb *redis.Client, svc leave.Service) *gin.Engine {
		r := gin.New()
		r.POST("/leave-requests",
			func(c *gin.Context) { c.Set("user_id", employeeID) },
			middleware.Idempotency(rdb),
			leave.NewHandlerWithRedis(svc, rdb).Submit,
		)
		return r
	}

	post := func(r *gin.Engine) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "retry-xyz")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("first request caches the envelope and releases the lock", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return res, nil
			},
		}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, envelope, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := post(newRouter(rdb, svc))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replay serves the cached outcome without re-running the service", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not run on replay")
				return leave.LeaveResponse{}, nil
			},
		}

		mock.ExpectGet(cacheKey).SetVal(string(envelope))

		w := post(newRouter(rdb, svc))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, string(envelope), w.Body.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is told to wait", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		svc := &fakeLeaveService{
			SubmitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not run while the lock is held")
				return leave.LeaveResponse{}, nil
			},
		}

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := post(newRouter(rdb, svc))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "PROCESSING")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLeaveHandler_GetHistory(t *testing.T) {
	gin.SetMode(gin.TestMode)

	employeeID := uuid.NewString()
	svc := &fakeLeaveService{
		GetHistoryFn: func(ctx context.Context, eid string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, employeeID, eid)
			return []leave.LeaveResponse{
				{ID: uuid.NewString(), Status: leave.StatusApproved},
			}, nil
		},
	}

	h := leave.NewHandler(svc)
	c, w := newJSONContext(t, http.MethodGet, "/leave-requests", "", employeeID)

	h.GetHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), leave.StatusApproved)
}

func TestLeaveHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		reviewerID := uuid.NewString()
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id, rid string) (leave.LeaveResponse, error) {
				assert.Equal(t, "req-1", id)
				assert.Equal(t, reviewerID, rid)
				return leave.LeaveResponse{Status: leave.StatusApproved, ReviewedBy: rid}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests/req-1/approve", "", reviewerID)
		c.Params = gin.Params{{Key: "id", Value: "req-1"}}

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), leave.StatusApproved)
	})

	t.Run("already reviewed returns conflict", func(t *testing.T) {
		svc := &fakeLeaveService{
			ApproveFn: func(ctx context.Context, id, rid string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyReviewed
			},
		}

		h := leave.NewHandler(svc)
		c, w := newJSONContext(t, http.MethodPost, "/leave-requests/req-1/approve", "", uuid.NewString())
		c.Params = gin.Params{{Key: "id", Value: "req-1"}}

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "already been reviewed")
	})
}

func TestLeaveHandler_Reject(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeLeaveService{
		RejectFn: func(ctx context.Context, id, rid string) (leave.LeaveResponse, error) {
			return leave.LeaveResponse{Status: leave.StatusRejected}, nil
		},
	}

	h := leave.NewHandler(svc)
	c, w := newJSONContext(t, http.MethodPost, "/leave-requests/req-2/reject", "", uuid.NewString())
	c.Params = gin.Params{{Key: "id", Value: "req-2"}}

	h.Reject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), leave.StatusRejected)
}

func TestLeaveHandler_GetPending(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeLeaveService{
		GetPendingFn: func(ctx context.Context) ([]leave.LeaveResponse, error) {
			return []leave.LeaveResponse{
				{ID: uuid.NewString(), Status: leave.StatusPending, EmployeeName: "Dana Reyes"},
			}, nil
		},
	}

	h := leave.NewHandler(svc)
	c, w := newJSONContext(t, http.MethodGet, "/leave-requests/pending", "", uuid.NewString())

	h.GetPending(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dana Reyes")
}
