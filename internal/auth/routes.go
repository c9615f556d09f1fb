package auth

import (
	"path"
	"strings"

	"github.com/scalebit/admin-console/internal/domain"
)

// Well-known console entry points.
const (
	HomePath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
	LogoutPath   = "/logout"
)

// Access classifies a navigable entry.
type Access int

const (
	// AccessGuarded entries need an authenticated session.
	AccessGuarded Access = iota
	// AccessPublic entries are always reachable.
	AccessPublic
	// AccessAuthEntry entries (login, register) are public, and optionally
	// bounce callers who are already authenticated.
	AccessAuthEntry
)

// Decision is the outcome of one navigation attempt.
type Decision struct {
	Allowed  bool
	Redirect string
}

// RouteTable maps entry paths to their access class. Sub-paths inherit the
// class of their first segment, so /users/7 is governed by /users.
type RouteTable struct {
	routes              map[string]Access
	bounceAuthenticated bool
}

// NewRouteTable returns an empty table.
func NewRouteTable() *RouteTable {
	return &RouteTable{routes: make(map[string]Access)}
}

// DefaultRoutes returns the console's navigation map.
func DefaultRoutes() *RouteTable {
	return NewRouteTable().
		Add(LoginPath, AccessAuthEntry).
		Add(RegisterPath, AccessAuthEntry).
		Add(LogoutPath, AccessPublic).
		Add(HomePath, AccessGuarded).
		Add("/users", AccessGuarded).
		Add("/products", AccessGuarded).
		Add("/orders", AccessGuarded).
		Add("/payments", AccessGuarded)
}

// Add registers an entry.
func (t *RouteTable) Add(p string, access Access) *RouteTable {
	t.routes[normalize(p)] = access
	return t
}

// BounceAuthenticated makes auth entry points redirect authenticated callers home.
func (t *RouteTable) BounceAuthenticated(on bool) *RouteTable {
	t.bounceAuthenticated = on
	return t
}

// Lookup returns the access class for p.
func (t *RouteTable) Lookup(p string) (Access, bool) {
	p = normalize(p)
	if access, ok := t.routes[p]; ok {
		return access, true
	}
	if p == HomePath {
		return 0, false
	}
	first := "/" + strings.SplitN(strings.TrimPrefix(p, "/"), "/", 2)[0]
	access, ok := t.routes[first]
	return access, ok
}

// Authorize decides a navigation to p for the given session.
func (t *RouteTable) Authorize(p string, session domain.Session) Decision {
	access, known := t.Lookup(p)
	if !known {
		if session.Authenticated {
			return Decision{Redirect: HomePath}
		}
		return Decision{Redirect: LoginPath}
	}

	switch access {
	case AccessPublic:
		return Decision{Allowed: true}
	case AccessAuthEntry:
		if t.bounceAuthenticated && session.Authenticated {
			return Decision{Redirect: HomePath}
		}
		return Decision{Allowed: true}
	default:
		if session.Authenticated {
			return Decision{Allowed: true}
		}
		return Decision{Redirect: LoginPath}
	}
}

func normalize(p string) string {
	if p == "" {
		return HomePath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
