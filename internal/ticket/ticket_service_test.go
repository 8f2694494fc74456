package ticket_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pacs-portal/internal/events"
	"pacs-portal/internal/messaging/kafka"
	"pacs-portal/internal/ticket"
	ticketerrors "pacs-portal/internal/ticket/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeTicketRepo struct {
	createFn               func(ctx context.Context, t *ticket.Ticket) error
	findByIDFn             func(ctx context.Context, id string) (*ticket.Ticket, error)
	findRecentFn           func(ctx context.Context, limit int) ([]ticket.Ticket, error)
	findRecentByReporterFn func(ctx context.Context, reporterID string, limit int) ([]ticket.Ticket, error)
	findUnassignedFn       func(ctx context.Context, priority string) ([]ticket.Ticket, error)
	countAllFn             func(ctx context.Context, reporterID string) (int64, error)
	countByStatusFn        func(ctx context.Context, status, reporterID string) (int64, error)
	updateFn               func(ctx context.Context, t *ticket.Ticket) error
}

func (f *fakeTicketRepo) WithTx(tx *sql.Tx) ticket.Repository { return f }

func (f *fakeTicketRepo) Create(ctx context.Context, t *ticket.Ticket) error {
	return f.createFn(ctx, t)
}

func (f *fakeTicketRepo) FindByID(ctx context.Context, id string) (*ticket.Ticket, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeTicketRepo) FindRecent(ctx context.Context, limit int) ([]ticket.Ticket, error) {
	return f.findRecentFn(ctx, limit)
}

func (f *fakeTicketRepo) FindRecentByReporter(ctx context.Context, reporterID string, limit int) ([]ticket.Ticket, error) {
	return f.findRecentByReporterFn(ctx, reporterID, limit)
}

func (f *fakeTicketRepo) FindUnassignedByPriority(ctx context.Context, priority string) ([]ticket.Ticket, error) {
	return f.findUnassignedFn(ctx, priority)
}

func (f *fakeTicketRepo) CountAll(ctx context.Context, reporterID string) (int64, error) {
	return f.countAllFn(ctx, reporterID)
}

func (f *fakeTicketRepo) CountByStatus(ctx context.Context, status, reporterID string) (int64, error) {
	return f.countByStatusFn(ctx, status, reporterID)
}

func (f *fakeTicketRepo) Update(ctx context.Context, t *ticket.Ticket) error {
	return f.updateFn(ctx, t)
}

type fakeCounterRepo struct {
	next int64
	err  error
}

func (f *fakeCounterRepo) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	return f.next, f.err
}

type fakeOutboxRepo struct {
	created []kafka.OutboxEvent
	err     error
}

func (f *fakeOutboxRepo) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepo) Create(ctx context.Context, event kafka.OutboxEvent) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepo) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, errors.New("unexpected call")
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string) error {
	return errors.New("unexpected call")
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, reason string) error {
	return errors.New("unexpected call")
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestTicketService_Create(t *testing.T) {
	ctx := context.Background()
	reporterID := uuid.NewString()

	t.Run("success writes ticket and outbox event in one tx", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		var stored *ticket.Ticket
		repo := &fakeTicketRepo{
			createFn: func(ctx context.Context, row *ticket.Ticket) error {
				stored = row
				return nil
			},
		}
		outbox := &fakeOutboxRepo{}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{next: 7}, outbox)

		expectTx(t, sqlMock, true)

		resp, err := svc.Create(ctx, reporterID, ticket.CreateTicketRequest{
			Title:       "VPN keeps dropping",
			Description: "Disconnects every few minutes on the office network.",
			Category:    ticket.CategoryHardware,
			Priority:    ticket.PriorityHigh,
		})

		assert.NoError(t, err)
		assert.Equal(t, "PACS-00007", resp.TicketNumber)
		assert.Equal(t, ticket.StatusOpen, resp.Status)
		assert.Equal(t, reporterID, resp.ReporterID)
		assert.NotNil(t, stored)

		assert.Len(t, outbox.created, 1)
		evt := outbox.created[0]
		assert.Equal(t, events.TicketLifecycleTopic, evt.Topic)
		assert.Equal(t, "ticket_created", evt.EventType)
		assert.Equal(t, kafka.OutboxStatusPending, evt.Status)
		assert.Equal(t, stored.ID.String(), evt.AggregateID)

		var payload events.TicketCreatedEvent
		assert.NoError(t, json.Unmarshal(evt.Payload, &payload))
		assert.Equal(t, "PACS-00007", payload.TicketNumber)
		assert.Equal(t, ticket.PriorityHigh, payload.Priority)

		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("defaults priority to medium", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeTicketRepo{
			createFn: func(ctx context.Context, row *ticket.Ticket) error { return nil },
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{next: 1}, &fakeOutboxRepo{})

		expectTx(t, sqlMock, true)

		resp, err := svc.Create(ctx, reporterID, ticket.CreateTicketRequest{
			Title:       "Chair broken",
			Description: "Left armrest came off.",
			Category:    ticket.CategoryFacilities,
		})

		assert.NoError(t, err)
		assert.Equal(t, ticket.PriorityMedium, resp.Priority)
	})

	t.Run("counter failure rolls back", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeTicketRepo{
			createFn: func(ctx context.Context, row *ticket.Ticket) error {
				t.Fatal("create should not be called when the counter fails")
				return nil
			},
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{err: errors.New("counter down")}, &fakeOutboxRepo{})

		expectTx(t, sqlMock, false)

		_, err = svc.Create(ctx, reporterID, ticket.CreateTicketRequest{
			Title:       "Anything",
			Description: "Anything",
			Category:    ticket.CategoryOther,
		})

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeTicketRepo{
			createFn: func(ctx context.Context, row *ticket.Ticket) error { return nil },
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{next: 2}, &fakeOutboxRepo{err: errors.New("insert failed")})

		expectTx(t, sqlMock, false)

		_, err = svc.Create(ctx, reporterID, ticket.CreateTicketRequest{
			Title:       "Anything",
			Description: "Anything",
			Category:    ticket.CategoryHR,
		})

		assert.Error(t, err)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}

func TestTicketService_List(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	rows := []ticket.Ticket{
		{ID: uuid.New(), TicketNumber: "PACS-00010", Status: ticket.StatusOpen, ReporterID: uuid.New()},
		{ID: uuid.New(), TicketNumber: "PACS-00009", Status: ticket.StatusResolved, ReporterID: uuid.New()},
	}

	t.Run("admin sees the recent queue", func(t *testing.T) {
		var gotLimit int
		repo := &fakeTicketRepo{
			findRecentFn: func(ctx context.Context, limit int) ([]ticket.Ticket, error) {
				gotLimit = limit
				return rows, nil
			},
			findRecentByReporterFn: func(ctx context.Context, reporterID string, limit int) ([]ticket.Ticket, error) {
				t.Fatal("reporter-scoped query should not run for admins")
				return nil, nil
			},
		}
		svc := ticket.NewService(nil, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})

		res, err := svc.List(ctx, actorID, true)

		assert.NoError(t, err)
		assert.Len(t, res, 2)
		assert.Equal(t, 20, gotLimit)
	})

	t.Run("employee only sees own tickets", func(t *testing.T) {
		repo := &fakeTicketRepo{
			findRecentByReporterFn: func(ctx context.Context, reporterID string, limit int) ([]ticket.Ticket, error) {
				assert.Equal(t, actorID, reporterID)
				assert.Equal(t, 20, limit)
				return rows[:1], nil
			},
		}
		svc := ticket.NewService(nil, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})

		res, err := svc.List(ctx, actorID, false)

		assert.NoError(t, err)
		assert.Len(t, res, 1)
		assert.Equal(t, "PACS-00010", res[0].TicketNumber)
	})
}

func TestTicketService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	row := &ticket.Ticket{
		ID:           uuid.New(),
		TicketNumber: "PACS-00003",
		Status:       ticket.StatusOpen,
		ReporterID:   ownerID,
	}

	repoFor := func(r *ticket.Ticket, err error) *fakeTicketRepo {
		return &fakeTicketRepo{
			findByIDFn: func(ctx context.Context, id string) (*ticket.Ticket, error) {
				return r, err
			},
		}
	}

	t.Run("owner can read", func(t *testing.T) {
		svc := ticket.NewService(nil, repoFor(row, nil), &fakeCounterRepo{}, &fakeOutboxRepo{})

		res, err := svc.GetByID(ctx, row.ID.String(), ownerID.String(), false)

		assert.NoError(t, err)
		assert.Equal(t, "PACS-00003", res.TicketNumber)
	})

	t.Run("other employee is refused", func(t *testing.T) {
		svc := ticket.NewService(nil, repoFor(row, nil), &fakeCounterRepo{}, &fakeOutboxRepo{})

		_, err := svc.GetByID(ctx, row.ID.String(), uuid.NewString(), false)

		assert.ErrorIs(t, err, ticketerrors.ErrNotTicketOwner)
	})

	t.Run("admin can read any ticket", func(t *testing.T) {
		svc := ticket.NewService(nil, repoFor(row, nil), &fakeCounterRepo{}, &fakeOutboxRepo{})

		_, err := svc.GetByID(ctx, row.ID.String(), uuid.NewString(), true)

		assert.NoError(t, err)
	})

	t.Run("missing ticket maps to not found", func(t *testing.T) {
		svc := ticket.NewService(nil, repoFor(nil, gorm.ErrRecordNotFound), &fakeCounterRepo{}, &fakeOutboxRepo{})

		_, err := svc.GetByID(ctx, uuid.NewString(), ownerID.String(), false)

		assert.ErrorIs(t, err, ticketerrors.ErrTicketNotFound)
	})
}

func TestTicketService_GetStats(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.NewString()

	counts := map[string]int64{
		ticket.StatusOpen:       4,
		ticket.StatusInProgress: 2,
		ticket.StatusResolved:   5,
		ticket.StatusClosed:     3,
	}

	t.Run("admin counts span every reporter", func(t *testing.T) {
		repo := &fakeTicketRepo{
			countAllFn: func(ctx context.Context, reporterID string) (int64, error) {
				assert.Empty(t, reporterID)
				return 14, nil
			},
			countByStatusFn: func(ctx context.Context, status, reporterID string) (int64, error) {
				assert.Empty(t, reporterID)
				return counts[status], nil
			},
		}
		svc := ticket.NewService(nil, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})

		stats, err := svc.GetStats(ctx, actorID, true)

		assert.NoError(t, err)
		assert.Equal(t, int64(14), stats.Total)
		assert.Equal(t, int64(4), stats.Open)
		assert.Equal(t, int64(2), stats.InProgress)
		assert.Equal(t, int64(8), stats.Resolved)
	})

	t.Run("employee counts are scoped to own tickets", func(t *testing.T) {
		repo := &fakeTicketRepo{
			countAllFn: func(ctx context.Context, reporterID string) (int64, error) {
				assert.Equal(t, actorID, reporterID)
				return 3, nil
			},
			countByStatusFn: func(ctx context.Context, status, reporterID string) (int64, error) {
				assert.Equal(t, actorID, reporterID)
				if status == ticket.StatusOpen {
					return 2, nil
				}
				if status == ticket.StatusResolved {
					return 1, nil
				}
				return 0, nil
			},
		}
		svc := ticket.NewService(nil, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})

		stats, err := svc.GetStats(ctx, actorID, false)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(2), stats.Open)
		assert.Equal(t, int64(1), stats.Resolved)
	})
}

func TestTicketService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	newSvc := func(t *testing.T, current string, mockCommit *bool) (ticket.Service, sqlmock.Sqlmock, **ticket.Ticket, func()) {
		t.Helper()
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)

		row := &ticket.Ticket{
			ID:         uuid.New(),
			Status:     current,
			ReporterID: uuid.New(),
		}
		var updated *ticket.Ticket
		repo := &fakeTicketRepo{
			findByIDFn: func(ctx context.Context, id string) (*ticket.Ticket, error) {
				return row, nil
			},
			updateFn: func(ctx context.Context, t *ticket.Ticket) error {
				updated = t
				return nil
			},
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})
		expectTx(t, sqlMock, *mockCommit)
		return svc, sqlMock, &updated, func() { db.Close() }
	}

	t.Run("open to in_progress", func(t *testing.T) {
		commit := true
		svc, sqlMock, updated, cleanup := newSvc(t, ticket.StatusOpen, &commit)
		defer cleanup()

		res, err := svc.UpdateStatus(ctx, uuid.NewString(), ticket.UpdateStatusRequest{Status: ticket.StatusInProgress})

		assert.NoError(t, err)
		assert.Equal(t, ticket.StatusInProgress, res.Status)
		assert.NotNil(t, *updated)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("resolving stamps resolved_at", func(t *testing.T) {
		commit := true
		svc, _, updated, cleanup := newSvc(t, ticket.StatusInProgress, &commit)
		defer cleanup()

		res, err := svc.UpdateStatus(ctx, uuid.NewString(), ticket.UpdateStatusRequest{Status: ticket.StatusResolved})

		assert.NoError(t, err)
		assert.Equal(t, ticket.StatusResolved, res.Status)
		assert.NotNil(t, (*updated).ResolvedAt)
		assert.WithinDuration(t, time.Now().UTC(), *(*updated).ResolvedAt, 5*time.Second)
	})

	t.Run("reopening a resolved ticket clears resolved_at", func(t *testing.T) {
		commit := true
		svc, _, updated, cleanup := newSvc(t, ticket.StatusResolved, &commit)
		defer cleanup()

		res, err := svc.UpdateStatus(ctx, uuid.NewString(), ticket.UpdateStatusRequest{Status: ticket.StatusOpen})

		assert.NoError(t, err)
		assert.Equal(t, ticket.StatusOpen, res.Status)
		assert.Nil(t, (*updated).ResolvedAt)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		commit := false
		svc, sqlMock, updated, cleanup := newSvc(t, ticket.StatusClosed, &commit)
		defer cleanup()

		_, err := svc.UpdateStatus(ctx, uuid.NewString(), ticket.UpdateStatusRequest{Status: ticket.StatusOpen})

		assert.ErrorIs(t, err, ticketerrors.ErrInvalidTransition)
		assert.Nil(t, *updated)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("repeating the current status is rejected", func(t *testing.T) {
		commit := false
		svc, _, _, cleanup := newSvc(t, ticket.StatusOpen, &commit)
		defer cleanup()

		_, err := svc.UpdateStatus(ctx, uuid.NewString(), ticket.UpdateStatusRequest{Status: ticket.StatusOpen})

		assert.ErrorIs(t, err, ticketerrors.ErrInvalidTransition)
	})
}

func TestTicketService_Assign(t *testing.T) {
	ctx := context.Background()
	assigneeID := uuid.NewString()

	t.Run("assigning an open ticket starts progress", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		row := &ticket.Ticket{ID: uuid.New(), Status: ticket.StatusOpen, ReporterID: uuid.New()}
		var updated *ticket.Ticket
		repo := &fakeTicketRepo{
			findByIDFn: func(ctx context.Context, id string) (*ticket.Ticket, error) { return row, nil },
			updateFn: func(ctx context.Context, t *ticket.Ticket) error {
				updated = t
				return nil
			},
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})
		expectTx(t, sqlMock, true)

		res, err := svc.Assign(ctx, row.ID.String(), ticket.AssignRequest{AssigneeID: assigneeID})

		assert.NoError(t, err)
		assert.Equal(t, ticket.StatusInProgress, res.Status)
		assert.Equal(t, assigneeID, res.AssigneeID)
		assert.NotNil(t, updated.AssigneeID)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("reassigning keeps the current status", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		row := &ticket.Ticket{ID: uuid.New(), Status: ticket.StatusInProgress, ReporterID: uuid.New()}
		repo := &fakeTicketRepo{
			findByIDFn: func(ctx context.Context, id string) (*ticket.Ticket, error) { return row, nil },
			updateFn:   func(ctx context.Context, t *ticket.Ticket) error { return nil },
		}
		svc := ticket.NewService(db, repo, &fakeCounterRepo{}, &fakeOutboxRepo{})
		expectTx(t, sqlMock, true)

		res, err := svc.Assign(ctx, row.ID.String(), ticket.AssignRequest{AssigneeID: assigneeID})

		assert.NoError(t, err)
		assert.Equal(t, ticket.StatusInProgress, res.Status)
	})
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{ticket.StatusOpen, ticket.StatusInProgress, true},
		{ticket.StatusOpen, ticket.StatusClosed, true},
		{ticket.StatusInProgress, ticket.StatusResolved, true},
		{ticket.StatusInProgress, ticket.StatusOpen, true},
		{ticket.StatusResolved, ticket.StatusClosed, true},
		{ticket.StatusResolved, ticket.StatusOpen, true},
		{ticket.StatusResolved, ticket.StatusInProgress, true},
		{ticket.StatusOpen, ticket.StatusResolved, true},
		{ticket.StatusClosed, ticket.StatusOpen, false},
		{ticket.StatusClosed, ticket.StatusResolved, false},
		{ticket.StatusClosed, ticket.StatusInProgress, false},
		{ticket.StatusOpen, ticket.StatusOpen, false},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, ticket.CanTransition(tc.from, tc.to),
			"transition %s -> %s", tc.from, tc.to)
	}
}
