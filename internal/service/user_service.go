package service

import (
	"context"
	"strings"

	"github.com/scalebit/admin-console/internal/domain"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

// ListUsers returns users whose name or email contains query, ignoring case.
func (c *Console) ListUsers(ctx context.Context, query string) ([]domain.User, error) {
	users, err := c.api.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users, nil
	}
	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) || strings.Contains(strings.ToLower(u.Email), q) {
			filtered = append(filtered, u)
		}
	}
	return filtered, nil
}

func (c *Console) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return c.api.GetUser(ctx, id)
}

// CreateUser adds an account. Admin only.
func (c *Console) CreateUser(ctx context.Context, session domain.Session, in domain.NewUser) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email, "password": in.Password}); err != nil {
		return nil, err
	}
	return c.api.CreateUser(ctx, in)
}

// UpdateUser edits name and email. Admin only.
func (c *Console) UpdateUser(ctx context.Context, session domain.Session, id int64, in domain.UserUpdate) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	in.Name, in.Email = strings.TrimSpace(in.Name), strings.TrimSpace(in.Email)
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email}); err != nil {
		return nil, err
	}
	return c.api.UpdateUser(ctx, id, in)
}

// SetUserRole changes another user's role. Admins cannot change their own.
func (c *Console) SetUserRole(ctx context.Context, session domain.Session, id int64, role domain.Role) (*domain.User, error) {
	if err := requireAdmin(session); err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && role != domain.RoleUser {
		return nil, apperrors.NewValidationError("role must be admin or user", map[string]any{"role": string(role)})
	}

	user, err := c.api.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsSelf(*user) {
		return nil, apperrors.NewForbidden("cannot change your own role")
	}
	return c.api.SetUserRole(ctx, *user, role)
}

// DeleteUser removes an account. Admin only.
func (c *Console) DeleteUser(ctx context.Context, session domain.Session, id int64) error {
	if err := requireAdmin(session); err != nil {
		return err
	}
	return c.api.DeleteUser(ctx, id)
}

func requireAdmin(session domain.Session) error {
	if !session.Authenticated {
		return apperrors.NewUnauthorized("session required")
	}
	if !session.IsAdmin() {
		return apperrors.NewForbidden("admin only")
	}
	return nil
}

func requireFields(fields map[string]string) error {
	details := map[string]any{}
	for name, value := range fields {
		if value == "" {
			details[name] = "required"
		}
	}
	return detailsError("missing required fields", details)
}
