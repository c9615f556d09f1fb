package dto

import "github.com/scalebit/admin-console/internal/domain"

// NavItem is one sidebar entry.
type NavItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Sidebar lists the guarded pages in display order.
var Sidebar = []NavItem{
	{Title: "Dashboard", Path: "/"},
	{Title: "Users", Path: "/users"},
	{Title: "Products", Path: "/products"},
	{Title: "Orders", Path: "/orders"},
	{Title: "Payments", Path: "/payments"},
}

// SessionView describes the caller to page templates.
type SessionView struct {
	Authenticated bool   `json:"authenticated"`
	Role          string `json:"role,omitempty"`
}

// NewSessionView projects a session for rendering.
func NewSessionView(s domain.Session) SessionView {
	return SessionView{Authenticated: s.Authenticated, Role: s.RoleName()}
}

// PageView is an auth entry page (login, register).
type PageView struct {
	Page    string      `json:"page"`
	Session SessionView `json:"session"`
}

// DashboardView is the overview page.
type DashboardView struct {
	Session    SessionView           `json:"session"`
	Navigation []NavItem             `json:"navigation"`
	Stats      domain.DashboardStats `json:"stats"`
}

// ListView is a searchable resource table.
type ListView[T any] struct {
	Items   []T    `json:"items"`
	Count   int    `json:"count"`
	Query   string `json:"query,omitempty"`
	CanEdit bool   `json:"can_edit"`
}

// NewListView builds a list page; CanEdit mirrors the admin affordance.
func NewListView[T any](items []T, query string, session domain.Session) ListView[T] {
	return ListView[T]{Items: items, Count: len(items), Query: query, CanEdit: session.IsAdmin()}
}
