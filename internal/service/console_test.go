package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalebit/admin-console/internal/apiclient"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/navigation"
	"github.com/scalebit/admin-console/internal/repository"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

/*
Console service test cases:
1) Login stores the token, publishes session_started and navigates home
2) Register schedules a delayed navigation to /login
3) Logout clears the slot and navigates to /login
4) Stats counts the four collections concurrently
5) Stats with a rejected token clears the slot once and navigates to /login
6) Search filters match the dashboard pages
7) Mutations need an admin session
8) Admins cannot change their own role
9) Validation rejects incomplete input before calling the gateway
*/

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

type fixture struct {
	console    *Console
	store      repository.TokenStore
	nav        *navigation.Recorder
	dispatcher events.Dispatcher
	calls      *atomic.Int32
}

func fakeGateway(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	calls := &atomic.Int32{}
	mux := http.NewServeMux()
	reply := func(v any) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if status != http.StatusOK {
				http.Error(w, http.StatusText(status), status)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(v)
		}
	}
	mux.HandleFunc("/login", reply(map[string]string{"token": signed(t, jwt.MapClaims{"role": "admin", "id": 1, "exp": time.Now().Add(time.Hour).Unix()})}))
	mux.HandleFunc("/register", reply(domain.User{ID: 9, Name: "New", Email: "new@x.io", Role: domain.RoleUser}))
	mux.HandleFunc("/users", reply([]domain.User{
		{ID: 1, Name: "Ada Admin", Email: "ada@scalebit.io", Role: domain.RoleAdmin},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser},
	}))
	mux.HandleFunc("/users/1", reply(domain.User{ID: 1, Name: "Ada Admin", Email: "ada@scalebit.io", Role: domain.RoleAdmin}))
	mux.HandleFunc("/users/2", reply(domain.User{ID: 2, Name: "Bob", Email: "bob@example.com", Role: domain.RoleUser}))
	mux.HandleFunc("/products", reply([]domain.Product{{ID: 1, Name: "Widget"}, {ID: 2, Name: "Gadget"}, {ID: 3, Name: "Gizmo"}}))
	mux.HandleFunc("/orders", reply([]domain.Order{{ID: 10}, {ID: 21}, {ID: 31}, {ID: 4}}))
	mux.HandleFunc("/payments", reply([]domain.Payment{{ID: 100}}))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, calls
}

func newFixture(t *testing.T, status int, stored, current string) fixture {
	t.Helper()
	srv, calls := fakeGateway(t, status)

	dispatcher := events.NewInMemoryDispatcher()
	api, err := apiclient.New(config.APIConfig{BaseURL: srv.URL}, apiclient.WithEvents(dispatcher))
	require.NoError(t, err)

	factory := NewFactory(FactoryDependencies{API: api, Dispatcher: dispatcher, RegisterDelay: 1500 * time.Millisecond})
	store := repository.Bind(repository.NewMemorySlotStore(), repository.TokenKey)
	if stored != "" {
		require.NoError(t, store.Set(context.Background(), stored))
	}
	nav := navigation.NewRecorder(current)
	return fixture{console: factory.Open(store, nav), store: store, nav: nav, dispatcher: dispatcher, calls: calls}
}

func session(role domain.Role, id int64) domain.Session {
	return domain.Authenticated(&domain.Claims{Role: &role, UserID: &id})
}

func TestLogin_StoresTokenAndNavigatesHome(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/login")
	var started []events.Event
	f.dispatcher.Subscribe(events.EventSessionStarted, func(_ context.Context, e events.Event) error {
		started = append(started, e)
		return nil
	})

	s, err := f.console.Login(context.Background(), "ada@scalebit.io", "pw")
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())

	_, ok, err := f.store.Get(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)

	target, _, pending := f.nav.Pending()
	assert.True(t, pending)
	assert.Equal(t, "/", target)
	require.Len(t, started, 1)
	assert.Equal(t, "admin", started[0].Role)
}

func TestLogin_RequiresCredentials(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/login")

	_, err := f.console.Login(context.Background(), " ", "pw")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.Zero(t, f.calls.Load())
}

func TestRegister_DelaysLoginRedirect(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/register")

	user, err := f.console.Register(context.Background(), "New", "new@x.io", "pw")
	require.NoError(t, err)
	assert.Equal(t, int64(9), user.ID)

	target, delay, pending := f.nav.Pending()
	assert.True(t, pending)
	assert.Equal(t, "/login", target)
	assert.Equal(t, 1500*time.Millisecond, delay)

	_, ok, _ := f.store.Get(context.Background())
	assert.False(t, ok, "registration does not log in")
}

type plainNav struct{ navigated chan string }

func (p *plainNav) Current() string       { return "/register" }
func (p *plainNav) Navigate(path string) { p.navigated <- path }

func TestRegister_FallsBackToTimer(t *testing.T) {
	srv, _ := fakeGateway(t, http.StatusOK)
	api, err := apiclient.New(config.APIConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	factory := NewFactory(FactoryDependencies{API: api, RegisterDelay: 10 * time.Millisecond})

	nav := &plainNav{navigated: make(chan string, 1)}
	console := factory.Open(repository.Bind(repository.NewMemorySlotStore(), repository.TokenKey), nav)

	_, err = console.Register(context.Background(), "New", "new@x.io", "pw")
	require.NoError(t, err)

	select {
	case path := <-nav.navigated:
		assert.Equal(t, "/login", path)
	case <-time.After(time.Second):
		t.Fatal("expected delayed navigation")
	}
}

func TestLogout_ClearsAndNavigates(t *testing.T) {
	f := newFixture(t, http.StatusOK, "a.b.c", "/")

	require.NoError(t, f.console.Logout(context.Background()))
	_, ok, _ := f.store.Get(context.Background())
	assert.False(t, ok)

	target, _, pending := f.nav.Pending()
	assert.True(t, pending)
	assert.Equal(t, "/login", target)
}

func TestStats_CountsCollections(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/")

	stats, err := f.console.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardStats{Users: 2, Products: 3, Orders: 4, Payments: 1}, stats)
}

func TestStats_RejectedTokenSendsToLogin(t *testing.T) {
	f := newFixture(t, http.StatusUnauthorized, "eyJhbGciOiJIUzI1NiJ9.eyJyb2xlIjoiYWRtaW4iLCJleHAiOjk5OTk5OTk5OTl9.sig", "/")

	_, err := f.console.Stats(context.Background())
	require.Error(t, err)

	_, ok, _ := f.store.Get(context.Background())
	assert.False(t, ok)
	target, _, pending := f.nav.Pending()
	assert.True(t, pending)
	assert.Equal(t, "/login", target)
}

func TestSearchFilters(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/")
	ctx := context.Background()

	users, err := f.console.ListUsers(ctx, "SCALEBIT")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, int64(1), users[0].ID)

	users, err = f.console.ListUsers(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, users, 1)

	products, err := f.console.ListProducts(ctx, "GI")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Gizmo", products[0].Name)

	orders, err := f.console.ListOrders(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	payments, err := f.console.ListPayments(ctx, "")
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestMutations_RequireAdmin(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/products")
	ctx := context.Background()

	_, err := f.console.CreateProduct(ctx, session(domain.RoleUser, 2), domain.ProductInput{Name: "Widget"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	err = f.console.DeleteOrder(ctx, domain.Unauthenticated(), 4)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	_, err = f.console.CreateUser(ctx, domain.Authenticated(&domain.Claims{}), domain.NewUser{Name: "x", Email: "y", Password: "z"})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden), "missing role is not admin")

	assert.Zero(t, f.calls.Load())
}

func TestSetUserRole(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/users")
	ctx := context.Background()
	admin := session(domain.RoleAdmin, 1)

	_, err := f.console.SetUserRole(ctx, admin, 1, domain.RoleUser)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden), "own role is locked")

	_, err = f.console.SetUserRole(ctx, admin, 2, domain.Role("root"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.console.SetUserRole(ctx, admin, 2, domain.RoleAdmin)
	assert.NoError(t, err)
}

func TestValidation(t *testing.T) {
	f := newFixture(t, http.StatusOK, "", "/")
	ctx := context.Background()
	admin := session(domain.RoleAdmin, 1)

	_, err := f.console.CreateProduct(ctx, admin, domain.ProductInput{Name: "", Price: -1, Stock: -1})
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "stock")

	_, err = f.console.CreateOrder(ctx, admin, domain.OrderInput{Quantity: 1})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.console.CreatePayment(ctx, admin, domain.PaymentInput{OrderID: 1, Amount: 5})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = f.console.Register(ctx, "", "a@b.c", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.Equal(t, map[string]any{"name": "required", "password": "required"}, apperrors.ToDomainError(err).Details)

	assert.Zero(t, f.calls.Load())
}
