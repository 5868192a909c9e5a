package middleware

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"coown-backend/internal/application/eventlog"
	"coown-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func decodeBody(t *testing.T, app *fiber.App, method, path string, headers map[string]string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return resp.StatusCode, body
}

func TestTracing(t *testing.T) {
	app := fiber.New()
	app.Use(Tracing())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetTraceID(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(resp.Header.Get("X-Trace-Id"))
	assert.NoError(t, err)

	incoming := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", incoming)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, incoming, resp.Header.Get("X-Trace-Id"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Trace-Id", "not a uuid")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.NotEqual(t, "not a uuid", resp.Header.Get("X-Trace-Id"))
}

func TestErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Tracing(), RouteLogger())
	app.Get("/domain", func(c *fiber.Ctx) error { return domain.ErrPropertyNotFound })
	app.Get("/fiber", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusBadRequest, "Bad input") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret detail") })

	code, body := decodeBody(t, app, "GET", "/domain", nil)
	assert.Equal(t, 404, code)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "Property not found.", errObj["message"])
	assert.Equal(t, "not_found", errObj["details"].(map[string]interface{})["kind"])

	code, body = decodeBody(t, app, "GET", "/fiber", nil)
	assert.Equal(t, 400, code)
	assert.Equal(t, "Bad input", body["error"].(map[string]interface{})["message"])

	code, body = decodeBody(t, app, "GET", "/boom", nil)
	assert.Equal(t, 500, code)
	assert.Equal(t, "Internal Server Error", body["error"].(map[string]interface{})["message"])
}

func TestRequireAdminKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Post("/admin", RequireAdminKey(string(hash)), func(c *fiber.Ctx) error { return c.SendStatus(204) })
	app.Post("/closed", RequireAdminKey(""), func(c *fiber.Ctx) error { return c.SendStatus(204) })

	code, _ := decodeBody(t, app, "POST", "/admin", map[string]string{AdminKeyHeader: "s3cret"})
	assert.Equal(t, 204, code)
	code, _ = decodeBody(t, app, "POST", "/admin?key=s3cret", nil)
	assert.Equal(t, 204, code)
	code, _ = decodeBody(t, app, "POST", "/admin", map[string]string{AdminKeyHeader: "wrong"})
	assert.Equal(t, 403, code)
	code, _ = decodeBody(t, app, "POST", "/admin", nil)
	assert.Equal(t, 403, code)
	code, body := decodeBody(t, app, "POST", "/closed", map[string]string{AdminKeyHeader: "s3cret"})
	assert.Equal(t, 403, code)
	assert.Equal(t, "Admin access is not configured", body["error"].(map[string]interface{})["message"])
}

func TestTrafficMarker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(Tracing(), TrafficMarker(rdb))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	app.Get("/fail", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/health/json", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	for _, p := range []string{"/ok", "/ok", "/fail", "/health/json"} {
		_, err := app.Test(httptest.NewRequest("GET", p, nil))
		require.NoError(t, err)
	}

	total, _ := mr.Get(KeyReqTotal)
	assert.Equal(t, "3", total)
	errs, _ := mr.Get(KeyReqErrors)
	assert.Equal(t, "1", errs)
	count, _ := mr.Get(KeyResCount)
	assert.Equal(t, "3", count)
	assert.True(t, mr.Exists(KeyStartTime))

	entries, err := mr.List(KeyErrorLog)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	var entry ErrorLogEntry
	require.NoError(t, json.Unmarshal([]byte(entries[0]), &entry))
	assert.Equal(t, "/fail", entry.Path)
	assert.Equal(t, 500, entry.Status)
	assert.NotEmpty(t, entry.TraceID)
}

func TestTrafficMarker_NilRedis(t *testing.T) {
	app := fiber.New()
	app.Use(TrafficMarker(nil))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(200) })
	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestClientSession(t *testing.T) {
	app := fiber.New()
	app.Use(ClientSession(SessionConfig{}))
	app.Get("/", func(c *fiber.Ctx) error {
		s := eventlog.SessionFrom(c.UserContext(), eventlog.Session{ID: "fallback"})
		return c.JSON(fiber.Map{"id": s.ID, "channel": s.Channel})
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	cookie := resp.Header.Get("Set-Cookie")
	require.True(t, strings.HasPrefix(cookie, SessionCookieName+"="), cookie)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, strings.HasPrefix(body["id"], "s-"))
	assert.Equal(t, "web", body["channel"])

	sid := uuid.New().String()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Cookie", SessionCookieName+"="+sid)
	req.Header.Set(ChannelHeader, "App")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Header.Get("Set-Cookie"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "s-"+sid, body["id"])
	assert.Equal(t, "app", body["channel"])
}

func TestCORS(t *testing.T) {
	app := fiber.New()
	app.Use(CORS(CORSConfig{AllowedSuffix: ".coown.kr", DevPassword: "letmein"}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(200) })

	req := httptest.NewRequest("GET", "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://app.coown.kr")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://app.coown.kr", resp.Header.Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	req.Header.Set("dev-password", "letmein")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://evil.example", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouteLogger_StatusMatchesResponse(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(RouteLogger())
	app.Get("/missing", func(c *fiber.Ctx) error { return domain.ErrReservationNotFound })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	code, _ := decodeBody(t, app, "GET", "/missing", nil)
	require.Equal(t, 404, code)
	code, _ = decodeBody(t, app, "GET", "/boom", nil)
	require.Equal(t, 500, code)

	exits := map[string]map[string]interface{}{}
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		if entry["message"] == "Exiting request" {
			exits[entry["path"].(string)] = entry
		}
	}
	require.Contains(t, exits, "/missing")
	assert.Equal(t, 404.0, exits["/missing"]["status"])
	assert.Equal(t, "info", exits["/missing"]["level"])
	assert.Equal(t, 500.0, exits["/boom"]["status"])
	assert.Equal(t, "error", exits["/boom"]["level"])
}
