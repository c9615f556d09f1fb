package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/apiclient"
	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/navigation"
	"github.com/scalebit/admin-console/internal/repository"
)

// Factory opens per-caller consoles over one shared gateway client.
type Factory struct {
	api           *apiclient.Client
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
	registerDelay time.Duration
}

// FactoryDependencies encapsulates what every console needs.
type FactoryDependencies struct {
	API           *apiclient.Client
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	Now           func() time.Time
	RegisterDelay time.Duration
}

// NewFactory builds the factory.
func NewFactory(deps FactoryDependencies) *Factory {
	f := &Factory{
		api:           deps.API,
		dispatcher:    deps.Dispatcher,
		logger:        deps.Logger,
		now:           deps.Now,
		registerDelay: deps.RegisterDelay,
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f
}

// Open binds a console to one caller's token slot and navigator.
func (f *Factory) Open(store repository.TokenStore, nav navigation.Navigator) *Console {
	api := f.api.WithSession(store, nav)
	return &Console{
		api:           api,
		guard:         api.Guard(),
		store:         store,
		nav:           nav,
		dispatcher:    f.dispatcher,
		logger:        f.logger,
		now:           f.now,
		registerDelay: f.registerDelay,
	}
}

// Console is the per-caller binding of token slot, session guard, navigator
// and gateway client. Its methods back both the web console and the CLI.
type Console struct {
	api           *apiclient.Client
	guard         *auth.Guard
	store         repository.TokenStore
	nav           navigation.Navigator
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	now           func() time.Time
	registerDelay time.Duration
}

// Guard exposes the session guard so route authorization can share it.
func (c *Console) Guard() *auth.Guard {
	return c.guard
}

// Session evaluates the caller's session right now.
func (c *Console) Session(ctx context.Context) (domain.Session, error) {
	return c.guard.Evaluate(ctx, c.now())
}
