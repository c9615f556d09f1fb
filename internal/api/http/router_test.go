package http

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/apiclient"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/observability"
	"github.com/scalebit/admin-console/internal/repository"
	"github.com/scalebit/admin-console/internal/service"
)

/*
Web console test cases:
1) First visit sets the session cookie and guarded pages redirect to /login
2) /register is reachable without a session
3) Unknown paths redirect to / when authenticated, /login otherwise
4) Authenticated dashboard renders stats
5) A gateway 401 mid-request redirects to /login and empties the slot
6) Login POST stores the token under a fresh session id and redirects home with 303
7) Register POST sets a Refresh header
8) Non-admin mutations get 403
9) Health and metrics bypass route authorization
*/

const (
	cookieName = "scalebit_sid"
	sid        = "0b1f6c2e-7a55-4f55-9d0c-1f7f3c1e2a10"
)

type consoleFixture struct {
	app     *fiber.App
	slots   *repository.MemorySlotStore
	gateway *httptest.Server
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func newConsole(t *testing.T, gateway nethttp.Handler) consoleFixture {
	t.Helper()
	srv := httptest.NewServer(gateway)
	t.Cleanup(srv.Close)

	cfg := config.Config{
		App:     config.AppConfig{Name: "scalebit-console", Version: "test"},
		API:     config.APIConfig{BaseURL: srv.URL},
		Store:   config.StoreConfig{Backend: config.StoreMemory},
		Console: config.ConsoleConfig{CookieName: cookieName, RegisterRedirectDelayMS: 1500},
	}
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	dispatcher := events.NewInMemoryDispatcher()

	api, err := apiclient.New(cfg.API, apiclient.WithEvents(dispatcher), apiclient.WithMetrics(metrics))
	require.NoError(t, err)

	slots := repository.NewMemorySlotStore()
	app := NewConsoleApp(ConsoleDependencies{
		Config:   cfg,
		Logger:   zap.NewNop(),
		Metrics:  metrics,
		Gatherer: reg,
		Slots:    slots,
		Factory: service.NewFactory(service.FactoryDependencies{
			API:           api,
			Dispatcher:    dispatcher,
			RegisterDelay: cfg.Console.RegisterRedirectDelay(),
		}),
	})
	return consoleFixture{app: app, slots: slots, gateway: srv}
}

func (f consoleFixture) storeToken(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, f.slots.Save(context.Background(), repository.SessionSlot(sid), token))
}

func (f consoleFixture) slotToken(t *testing.T) (string, bool) {
	t.Helper()
	token, ok, err := repository.Bind(f.slots, repository.SessionSlot(sid)).Get(context.Background())
	require.NoError(t, err)
	return token, ok
}

func (f consoleFixture) do(t *testing.T, method, path, body string) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	req.AddCookie(&nethttp.Cookie{Name: cookieName, Value: sid})
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func gatewayMux(t *testing.T) *nethttp.ServeMux {
	mux := nethttp.NewServeMux()
	list := func(n int) nethttp.HandlerFunc {
		return func(w nethttp.ResponseWriter, r *nethttp.Request) {
			items := make([]map[string]any, n)
			for i := range items {
				items[i] = map[string]any{"id": i + 1}
			}
			_ = json.NewEncoder(w).Encode(items)
		}
	}
	mux.HandleFunc("/users", list(2))
	mux.HandleFunc("/products", list(3))
	mux.HandleFunc("/orders", list(4))
	mux.HandleFunc("/payments", list(5))
	mux.HandleFunc("/login", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": signed(t, jwt.MapClaims{"role": "admin", "exp": time.Now().Add(time.Hour).Unix()})})
	})
	mux.HandleFunc("/register", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.WriteHeader(nethttp.StatusCreated)
		_ = json.NewEncoder(w).Encode(domain.User{ID: 3, Name: "New", Email: "n@x.io"})
	})
	return mux
}

func TestConsole_FirstVisitSetsCookieAndRedirects(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, "/orders", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	assert.Contains(t, resp.Header.Get(fiber.HeaderSetCookie), cookieName+"=")
}

func TestConsole_RegisterPagePublic(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp := f.do(t, fiber.MethodGet, "/register", "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestConsole_UnknownPath(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp := f.do(t, fiber.MethodGet, "/settings", "")
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	f.storeToken(t, "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4iLCJleHAiOjk5OTk5OTk5OTl9.sig")
	resp = f.do(t, fiber.MethodGet, "/settings", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
}

func TestConsole_DashboardStats(t *testing.T) {
	f := newConsole(t, gatewayMux(t))
	f.storeToken(t, "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4iLCJleHAiOjk5OTk5OTk5OTl9.sig")

	resp := f.do(t, fiber.MethodGet, "/", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Session struct {
				Authenticated bool   `json:"authenticated"`
				Role          string `json:"role"`
			} `json:"session"`
			Stats domain.DashboardStats `json:"stats"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Data.Session.Authenticated)
	assert.Equal(t, "admin", body.Data.Session.Role)
	assert.Equal(t, domain.DashboardStats{Users: 2, Products: 3, Orders: 4, Payments: 5}, body.Data.Stats)
}

func TestConsole_ExpiredTokenRedirects(t *testing.T) {
	f := newConsole(t, gatewayMux(t))
	f.storeToken(t, signed(t, jwt.MapClaims{"role": "admin", "exp": 1}))

	resp := f.do(t, fiber.MethodGet, "/users", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	_, ok := f.slotToken(t)
	assert.False(t, ok)
}

func TestConsole_GatewayRejectionRedirectsToLogin(t *testing.T) {
	f := newConsole(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "revoked", nethttp.StatusUnauthorized)
	}))
	f.storeToken(t, "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4iLCJleHAiOjk5OTk5OTk5OTl9.sig")

	resp := f.do(t, fiber.MethodGet, "/products", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	_, ok := f.slotToken(t)
	assert.False(t, ok)
}

func TestConsole_LoginStoresTokenAndRedirectsHome(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp := f.do(t, fiber.MethodPost, "/login", `{"email":"ada@scalebit.io","password":"pw"}`)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))

	fresh := issuedSID(t, resp)
	_, ok, err := repository.Bind(f.slots, repository.SessionSlot(fresh)).Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestConsole_LoginRotatesSessionID(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp := f.do(t, fiber.MethodPost, "/login", `{"email":"ada@scalebit.io","password":"pw"}`)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	fresh := issuedSID(t, resp)
	assert.NotEqual(t, sid, fresh)

	// The id the browser arrived with no longer holds a token.
	_, ok := f.slotToken(t)
	assert.False(t, ok)
	resp = f.do(t, fiber.MethodGet, "/users", "")
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))

	req := httptest.NewRequest(fiber.MethodGet, "/users", nil)
	req.AddCookie(&nethttp.Cookie{Name: cookieName, Value: fresh})
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestConsole_FailedLoginKeepsSessionID(t *testing.T) {
	f := newConsole(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "invalid credentials", nethttp.StatusUnauthorized)
	}))

	resp := f.do(t, fiber.MethodPost, "/login", `{"email":"ada@scalebit.io","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderSetCookie))
}

// issuedSID returns the session cookie value set on resp.
func issuedSID(t *testing.T, resp *nethttp.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie issued", cookieName)
	return ""
}

func TestConsole_LoginRejectedStaysOnLogin(t *testing.T) {
	f := newConsole(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "invalid credentials", nethttp.StatusUnauthorized)
	}))

	resp := f.do(t, fiber.MethodPost, "/login", `{"email":"ada@scalebit.io","password":"nope"}`)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Header.Get(fiber.HeaderLocation))

	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "UNAUTHORIZED", body["error"]["code"])
	assert.Equal(t, "invalid credentials", body["error"]["message"])
}

func TestConsole_RegisterSetsRefresh(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp := f.do(t, fiber.MethodPost, "/register", `{"name":"New","email":"n@x.io","password":"pw"}`)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "1.5;url=/login", resp.Header.Get("Refresh"))
}

func TestConsole_LogoutClearsSlot(t *testing.T) {
	f := newConsole(t, gatewayMux(t))
	f.storeToken(t, "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4iLCJleHAiOjk5OTk5OTk5OTl9.sig")

	resp := f.do(t, fiber.MethodPost, "/logout", "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get(fiber.HeaderLocation))
	_, ok := f.slotToken(t)
	assert.False(t, ok)
}

func TestConsole_NonAdminMutationForbidden(t *testing.T) {
	f := newConsole(t, gatewayMux(t))
	f.storeToken(t, signed(t, jwt.MapClaims{"role": "user"}))

	resp := f.do(t, fiber.MethodPost, "/products", `{"name":"Widget","price":1,"stock":1}`)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestConsole_InfrastructureBypassesGuard(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	resp, err := f.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = f.app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	metrics, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(metrics), "# HELP")
}

func TestConsole_RequestID(t *testing.T) {
	f := newConsole(t, gatewayMux(t))

	req := httptest.NewRequest(fiber.MethodGet, "/health/live", nil)
	req.Header.Set("X-Request-ID", "req-42")
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get("X-Request-ID"))

	resp, err = f.app.Test(httptest.NewRequest(fiber.MethodGet, "/health/live", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
