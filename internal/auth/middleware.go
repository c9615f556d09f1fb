package auth

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/observability"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

const (
	guardKey   = "auth_guard"
	sessionKey = "auth_session"
)

// RouteGuard runs route authorization before any console view is produced.
type RouteGuard struct {
	routes  *RouteTable
	metrics *observability.Metrics
	now     func() time.Time
}

// NewRouteGuard constructs middleware. now defaults to time.Now.
func NewRouteGuard(routes *RouteTable, metrics *observability.Metrics, now func() time.Time) *RouteGuard {
	if now == nil {
		now = time.Now
	}
	return &RouteGuard{routes: routes, metrics: metrics, now: now}
}

// Handle evaluates the session for the request's slot and either redirects or
// continues with the session stored in request locals.
func (m *RouteGuard) Handle(c *fiber.Ctx) error {
	guard, ok := GuardFromContext(c)
	if !ok {
		return apperrors.NewInternalError(errors.New("session guard not bound"))
	}

	session, err := guard.Evaluate(c.UserContext(), m.now())
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	decision := m.routes.Authorize(c.Path(), session)
	if !decision.Allowed {
		m.metrics.RecordRoute("redirected")
		return c.Redirect(decision.Redirect, RedirectStatus(c.Method()))
	}

	m.metrics.RecordRoute("allowed")
	c.Locals(sessionKey, session)
	return c.Next()
}

// RedirectStatus picks 302 for reads and 303 for form submissions so the
// browser follows with a GET.
func RedirectStatus(method string) int {
	if method == fiber.MethodGet || method == fiber.MethodHead {
		return fiber.StatusFound
	}
	return fiber.StatusSeeOther
}

// BindGuard attaches the caller's guard to the request.
func BindGuard(c *fiber.Ctx, g *Guard) {
	c.Locals(guardKey, g)
}

// GuardFromContext retrieves the guard bound for this request.
func GuardFromContext(c *fiber.Ctx) (*Guard, bool) {
	g, ok := c.Locals(guardKey).(*Guard)
	return g, ok && g != nil
}

// SessionFromContext retrieves the session computed by RouteGuard.
func SessionFromContext(c *fiber.Ctx) (domain.Session, bool) {
	s, ok := c.Locals(sessionKey).(domain.Session)
	return s, ok
}
