package notes

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placefinder/placefinder/internal/apperr"
	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/places"
)

var museum = places.Place{ID: uuid.NewString(), Name: "Museum", GPS: "48.14, 17.10", Fun: true}

func TestSaveReplacesAndScopesByUser(t *testing.T) {
	svc := NewService(NewMemoryRepository(), places.NewMemoryRepository(museum))
	ctx := context.Background()
	alice, bob := uuid.NewString(), uuid.NewString()

	require.NoError(t, svc.Save(ctx, alice, museum.ID, "first"))
	require.NoError(t, svc.Save(ctx, alice, museum.ID, "second"))

	n, err := svc.Get(ctx, alice, museum.ID)
	require.NoError(t, err)
	assert.Equal(t, "second", n.Note)
	assert.Equal(t, museum.ID, n.PlaceID)

	_, err = svc.Get(ctx, bob, museum.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.Code(err))

	require.NoError(t, svc.Delete(ctx, alice, museum.ID))
	err = svc.Delete(ctx, alice, museum.ID)
	assert.Equal(t, apperr.CodeNotFound, apperr.Code(err))
}

func TestSaveRejections(t *testing.T) {
	svc := NewService(NewMemoryRepository(), places.NewMemoryRepository(museum))
	ctx := context.Background()

	assert.Equal(t, apperr.CodeMissingFields, apperr.Code(svc.Save(ctx, "u", museum.ID, "")))
	assert.Equal(t, apperr.CodeMissingFields, apperr.Code(svc.Save(ctx, "u", "", "text")))
	assert.Equal(t, apperr.CodeNotFound, apperr.Code(svc.Save(ctx, "u", uuid.NewString(), "text")))
}

func TestHandler(t *testing.T) {
	h := NewHandler(NewService(NewMemoryRepository(), places.NewMemoryRepository(museum)))
	user := uuid.NewString()
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(logging.Discard())})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", user)
		return c.Next()
	})
	app.Put("/note", h.Save)
	app.Get("/note", h.Get)
	app.Delete("/note", h.Delete)

	req := httptest.NewRequest(fiber.MethodPut, "/note", strings.NewReader(`{"activity_id":"`+museum.ID+`","note":"go early"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/note?activity_id="+museum.ID, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var n Note
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&n))
	assert.Equal(t, "go early", n.Note)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodDelete, "/note?activity_id="+museum.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/note?activity_id="+museum.ID, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestPostgresRepository(t *testing.T) {
	ctx := context.Background()
	uid, pid := uuid.New(), uuid.New()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("ON CONFLICT \\(user_id, place_id\\) DO UPDATE").WithArgs(uid, pid, "hello").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	updated := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT note, updated_at FROM notes").WithArgs(uid, pid).
		WillReturnRows(pgxmock.NewRows([]string{"note", "updated_at"}).AddRow("hello", updated))
	mock.ExpectExec("DELETE FROM notes").WithArgs(uid, pid).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewPostgresRepository(mock)
	require.NoError(t, repo.Upsert(ctx, uid.String(), pid.String(), "hello"))

	n, err := repo.Get(ctx, uid.String(), pid.String())
	require.NoError(t, err)
	assert.Equal(t, Note{PlaceID: pid.String(), Note: "hello", UpdatedAt: updated}, n)

	err = repo.Delete(ctx, uid.String(), pid.String())
	assert.Equal(t, apperr.CodeNotFound, apperr.Code(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
