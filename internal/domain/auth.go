package domain

import "time"

// Role is the capability tag carried in the token's role claim.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Claims are the fields the console reads from a decoded token payload.
// Exp is the raw exp claim in unix seconds; ExpiresAt is only set when that
// instant fits in a time.Time.
type Claims struct {
	Role      *Role
	Exp       *float64
	ExpiresAt *time.Time
	UserID    *int64
	Email     string
	Name      string
}

// Session is derived from the stored token on every evaluation and never persisted.
type Session struct {
	Authenticated bool
	Role          *Role
	Claims        *Claims
}

// Unauthenticated returns the empty session.
func Unauthenticated() Session {
	return Session{}
}

// Authenticated builds a session from decoded claims.
func Authenticated(claims *Claims) Session {
	s := Session{Authenticated: true, Claims: claims}
	if claims != nil {
		s.Role = claims.Role
	}
	return s
}

// IsAdmin reports whether mutating affordances should be offered.
func (s Session) IsAdmin() bool {
	return s.Authenticated && s.Role != nil && *s.Role == RoleAdmin
}

// RoleName returns the role or an empty string when the claim was absent.
func (s Session) RoleName() string {
	if s.Role == nil {
		return ""
	}
	return string(*s.Role)
}

// IsSelf reports whether the user record belongs to the session holder.
func (s Session) IsSelf(u User) bool {
	if s.Claims == nil {
		return false
	}
	if s.Claims.UserID != nil {
		return *s.Claims.UserID == u.ID
	}
	return s.Claims.Email != "" && s.Claims.Email == u.Email
}
