package catalog

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/places"
)

type staticSubmitted []places.Place

func (s staticSubmitted) All(context.Context) ([]places.Place, error) { return s, nil }

func TestMemorySyncMergesUpstreamAndSubmitted(t *testing.T) {
	ctx := context.Background()
	catalog := places.NewMemoryRepository(places.Place{ID: "stale", Name: "Gone"})
	mine := places.Place{ID: uuid.NewString(), Name: "My Pond", GPS: "48.1, 17.1"}
	shadow := Seed[0]
	shadow.Name = "Renamed by user"

	syncer := NewSyncer(NewMemorySource(Seed...), NewMemoryStore(catalog, staticSubmitted{mine, shadow}), logging.Discard())
	n, err := syncer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(Seed)+1, n)

	_, err = catalog.Get(ctx, "stale")
	assert.Equal(t, apperr.CodeNotFound, apperr.Code(err))

	got, err := catalog.Get(ctx, Seed[0].ID)
	require.NoError(t, err)
	assert.Equal(t, Seed[0].Name, got.Name)

	_, err = catalog.Get(ctx, mine.ID)
	assert.NoError(t, err)
}

type countingStore struct {
	active, peak atomic.Int32
	calls        atomic.Int32
}

func (s *countingStore) Rebuild(_ context.Context, upstream []places.Place) (int, error) {
	now := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		peak := s.peak.Load()
		if now <= peak || s.peak.CompareAndSwap(peak, now) {
			break
		}
	}
	s.calls.Add(1)
	time.Sleep(5 * time.Millisecond)
	return len(upstream), nil
}

func TestSyncRunsAreSerialized(t *testing.T) {
	store := &countingStore{}
	syncer := NewSyncer(NewMemorySource(Seed...), store, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = syncer.Run(context.Background())
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(8), store.calls.Load())
	assert.Equal(t, int32(1), store.peak.Load())
}

type failingSource struct{}

func (failingSource) Upstream(context.Context) ([]places.Place, error) {
	return nil, apperr.Storage("query places", errors.New("upstream unreachable"))
}

func TestSyncSourceFailureLeavesCatalog(t *testing.T) {
	catalog := places.NewMemoryRepository(Seed...)
	syncer := NewSyncer(failingSource{}, NewMemoryStore(catalog, staticSubmitted{}), nil)

	_, err := syncer.Run(context.Background())
	assert.Equal(t, apperr.CodeStorageFailure, apperr.Code(err))

	all, err := catalog.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, len(Seed))
}

func TestPostgresStoreRebuild(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM places").WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCopyFrom(pgx.Identifier{"places"}, placeColumns).WillReturnResult(int64(len(Seed)))
	mock.ExpectExec("INSERT INTO places .* FROM my_places").WillReturnResult(pgxmock.NewResult("INSERT", 2))
	mock.ExpectCommit()

	n, err := NewPostgresStore(mock).Rebuild(context.Background(), Seed)
	require.NoError(t, err)
	assert.Equal(t, len(Seed)+2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStoreRollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM places").WillReturnResult(pgxmock.NewResult("DELETE", 7))
	mock.ExpectCopyFrom(pgx.Identifier{"places"}, placeColumns).WillReturnError(errors.New("copy failed"))
	mock.ExpectRollback()

	_, err = NewPostgresStore(mock).Rebuild(context.Background(), Seed)
	assert.Equal(t, apperr.CodeStorageFailure, apperr.Code(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	p := Seed[1]
	mock.ExpectQuery("FROM catalog_places").WillReturnRows(pgxmock.NewRows(placeColumns).
		AddRow(uuid.MustParse(p.ID), p.Name, p.ImageName, p.Description, p.Contact, p.Address, p.GPS,
			p.Meals, p.Accomodation, p.Sport, p.Hiking, p.Fun, p.Events))

	got, err := NewPostgresSource(mock).Upstream(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []places.Place{p}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler("every tuesday-ish", NewSyncer(NewMemorySource(), &countingStore{}, nil), 0, nil)
	assert.Error(t, err)
}

func TestSchedulerRunsAndStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	store := &countingStore{}
	s, err := NewScheduler("@every 1s", NewSyncer(NewMemorySource(Seed...), store, nil), time.Second, logging.Discard())
	require.NoError(t, err)

	s.Start()
	require.Eventually(t, func() bool { return store.calls.Load() > 0 }, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

func TestUpdateDatabaseHandler(t *testing.T) {
	catalog := places.NewMemoryRepository()
	app := fiber.New()

	empty := NewHandler(NewSyncer(NewMemorySource(), NewMemoryStore(catalog, staticSubmitted{}), nil))
	app.Put("/empty", empty.UpdateDatabase)
	full := NewHandler(NewSyncer(NewMemorySource(Seed...), NewMemoryStore(catalog, staticSubmitted{}), nil))
	app.Put("/full", full.UpdateDatabase)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPut, "/empty", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPut, "/full", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
