package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/config"
	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/logging"
	"github.com/placefinder/placefinder/internal/places"
)

func testConfig() config.Config {
	return config.Config{
		AppName:            "placefinder-test",
		AppEnv:             "test",
		JWTSecret:          "routes-test-secret",
		JWTAlgorithm:       "HS256",
		RequestTimeout:     5 * time.Second,
		IdempotencyTTL:     time.Hour,
		LoginRatePerMinute: 100,
		HashConcurrency:    2,
		NearbyRadiusKM:     2,
	}
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()
	d := Deps{Cfg: testConfig(), Logger: logging.Discard()}
	app := fiber.New(fiber.Config{ErrorHandler: httpx.ErrorHandler(d.Logger)})
	require.NoError(t, Setup(app, d, NewStores(d)))
	return &client{t: t, app: app}
}

func (c *client) do(method, path, body string) (int, []byte) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if c.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	out, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, out
}

func (c *client) login(username, password string) {
	c.t.Helper()
	status, body := c.do(fiber.MethodPost, "/api/login/", `{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(c.t, http.StatusOK, status, string(body))
	var out struct {
		Token string `json:"jwt_token"`
	}
	require.NoError(c.t, json.Unmarshal(body, &out))
	require.NotEmpty(c.t, out.Token)
	c.token = out.Token
}

func detail(t *testing.T, body []byte) string {
	t.Helper()
	var d httpx.DetailResponse
	require.NoError(t, json.Unmarshal(body, &d))
	return d.Detail
}

const aliceSignup = `{"username":"alice","email":"alice@example.com","password":"pw1","confirm_password":"pw1"}`

func TestAccountLifecycle(t *testing.T) {
	c := newClient(t)

	status, body := c.do(fiber.MethodPost, "/api/signup/", aliceSignup)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Created: User created successfully", detail(t, body))

	status, body = c.do(fiber.MethodPost, "/api/signup/", aliceSignup)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Bad request: Email already exists.", detail(t, body))

	status, _ = c.do(fiber.MethodPost, "/api/signup/", `{"username":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(fiber.MethodPost, "/api/signup/", `{"username":"bob","email":"bob@example.com","password":"a","confirm_password":"b"}`)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = c.do(fiber.MethodPost, "/api/login/", `{"username":"alice","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Unauthorized", detail(t, body))

	c.login("alice", "pw1")

	status, body = c.do(fiber.MethodPatch, "/api/edit_profile/", `{}`)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"No changes were made."}`, string(body))

	status, _ = c.do(fiber.MethodPatch, "/api/edit_profile/", `{"username":"alicia"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(fiber.MethodPut, "/api/forgotten-password/", `{"email":"alice@example.com","password":"pw2","confirm_password":"pw2"}`)
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(fiber.MethodPut, "/api/forgotten-password/", `{"email":"ghost@example.com","password":"pw2","confirm_password":"pw2"}`)
	assert.Equal(t, http.StatusForbidden, status)

	c.login("alicia", "pw2")

	status, _ = c.do(fiber.MethodDelete, "/api/delete_account/", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(fiber.MethodDelete, "/api/delete_account/", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGatedRoutesRequireToken(t *testing.T) {
	c := newClient(t)

	for _, path := range []string{"/api/get_all_places", "/api/get_all_favourites", "/api/get_my_places"} {
		status, _ := c.do(fiber.MethodGet, path, "")
		assert.Equal(t, http.StatusForbidden, status, path)
	}

	c.token = "garbage"
	status, _ := c.do(fiber.MethodGet, "/api/get_all_places", "")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPlacesFavouritesNotesFlow(t *testing.T) {
	c := newClient(t)
	status, _ := c.do(fiber.MethodPost, "/api/signup/", aliceSignup)
	require.Equal(t, http.StatusCreated, status)
	c.login("alice", "pw1")

	status, body := c.do(fiber.MethodGet, "/api/get_all_places", "")
	require.Equal(t, http.StatusOK, status)
	var all httpx.ItemsResponse[places.Place]
	require.NoError(t, json.Unmarshal(body, &all))
	assert.Len(t, all.Items, len(catalog.Seed))

	status, body = c.do(fiber.MethodGet, "/api/location_places?gps=48.1440,17.1077", "")
	require.Equal(t, http.StatusOK, status)
	var near httpx.ItemsResponse[places.Place]
	require.NoError(t, json.Unmarshal(body, &near))
	assert.Len(t, near.Items, 2)

	status, _ = c.do(fiber.MethodGet, "/api/place_category?category=flying", "")
	assert.Equal(t, http.StatusBadRequest, status)

	castle := catalog.Seed[0].ID
	status, _ = c.do(fiber.MethodPost, "/api/add_favourite", `{"activity_id":"`+castle+`"}`)
	assert.Equal(t, http.StatusCreated, status)
	status, _ = c.do(fiber.MethodPost, "/api/add_favourite", `{"activity_id":"`+castle+`"}`)
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.do(fiber.MethodGet, "/api/get_all_favourites", "")
	require.Equal(t, http.StatusOK, status)
	var favs httpx.ItemsResponse[places.Place]
	require.NoError(t, json.Unmarshal(body, &favs))
	require.Len(t, favs.Items, 1)
	assert.Equal(t, castle, favs.Items[0].ID)

	status, _ = c.do(fiber.MethodPut, "/api/add_edit_note", `{"activity_id":"`+castle+`","note":"sunset view"}`)
	assert.Equal(t, http.StatusCreated, status)
	status, body = c.do(fiber.MethodGet, "/api/get_note?activity_id="+castle, "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "sunset view")
}

func TestMyPlacesAndSync(t *testing.T) {
	c := newClient(t)
	_, _ = c.do(fiber.MethodPost, "/api/signup/", aliceSignup)
	c.login("alice", "pw1")

	status, body := c.do(fiber.MethodPost, "/api/add_my_place", `{"name":"Secret Beach","gps":"48.19, 17.18","sport":true}`)
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))

	status, _ = c.do(fiber.MethodGet, "/api/place?id="+created.ID, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do(fiber.MethodPut, "/api/update_database", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"synced":`+itoa(len(catalog.Seed)+1)+`}`, string(body))

	status, _ = c.do(fiber.MethodGet, "/api/my_place_image_url?id="+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)

	_, _ = c.do(fiber.MethodPost, "/api/signup/", `{"username":"mallory","email":"m@example.com","password":"x","confirm_password":"x"}`)
	owner := c.token
	c.login("mallory", "x")
	status, _ = c.do(fiber.MethodDelete, "/api/delete_my_place?id="+created.ID, "")
	assert.Equal(t, http.StatusForbidden, status)

	c.token = owner
	status, _ = c.do(fiber.MethodDelete, "/api/delete_my_place?id="+created.ID, "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = c.do(fiber.MethodGet, "/api/place?id="+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndMetrics(t *testing.T) {
	c := newClient(t)

	status, body := c.do(fiber.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"in-memory"}`, string(body))

	status, _ = c.do(fiber.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do(fiber.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "http_requests_total")
}

func TestSetupRequiresDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"
	d := Deps{Cfg: cfg, Logger: logging.Discard()}
	err := Setup(fiber.New(), d, NewStores(d))
	assert.Error(t, err)
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestSignupLoginResolveScenario(t *testing.T) {
	c := newClient(t)

	status, _ := c.do(fiber.MethodPost, "/api/signup/",
		`{"username":"alice","email":"alice@example.com","password":"Secret123","confirm_password":"Secret123"}`)
	require.Equal(t, http.StatusCreated, status)

	c.login("alice", "Secret123")

	// a gated no-op edit only succeeds if the token resolves to an account
	status, _ = c.do(fiber.MethodPatch, "/api/edit_profile/", `{}`)
	assert.Equal(t, http.StatusOK, status)

	c.token = ""
	status, _ = c.do(fiber.MethodPost, "/api/login/", `{"username":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
}
