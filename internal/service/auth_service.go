package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/events"
	"github.com/scalebit/admin-console/internal/navigation"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

// Login exchanges credentials for a token, stores it and sends the caller home.
func (c *Console) Login(ctx context.Context, email, password string) (domain.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return domain.Unauthenticated(), apperrors.NewValidationError("email and password are required", nil)
	}

	token, err := c.api.Login(ctx, email, password)
	if err != nil {
		return domain.Unauthenticated(), err
	}
	if err := c.store.Set(ctx, token); err != nil {
		return domain.Unauthenticated(), apperrors.NewInternalError(fmt.Errorf("store token: %w", err))
	}

	session, err := c.Session(ctx)
	if err != nil {
		return domain.Unauthenticated(), apperrors.NewInternalError(err)
	}
	// An unreadable token was already cleared by the guard; route
	// authorization bounces the navigation below back to login.
	if session.Authenticated {
		events.Publish(ctx, c.dispatcher, events.Event{
			Type:      events.EventSessionStarted,
			Role:      session.RoleName(),
			Path:      c.nav.Current(),
			Timestamp: time.Now().UTC(),
		})
		c.logger.Info("session started", zap.String("role", session.RoleName()))
	}

	c.nav.Navigate(auth.HomePath)
	return session, nil
}

// Register creates an account and schedules the move to the login page.
// The caller is not logged in by registration.
func (c *Console) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if err := requireFields(map[string]string{"name": name, "email": email, "password": password}); err != nil {
		return nil, err
	}

	user, err := c.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}

	if delayed, ok := c.nav.(navigation.DelayedNavigator); ok {
		delayed.NavigateAfter(auth.LoginPath, c.registerDelay)
	} else {
		nav := c.nav
		time.AfterFunc(c.registerDelay, func() { nav.Navigate(auth.LoginPath) })
	}
	return user, nil
}

// Logout empties the token slot and sends the caller to the login page.
func (c *Console) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("clear token: %w", err))
	}
	events.Publish(ctx, c.dispatcher, events.Event{
		Type:      events.EventSessionEnded,
		Reason:    events.ReasonLogout,
		Path:      c.nav.Current(),
		Timestamp: time.Now().UTC(),
	})
	c.nav.Navigate(auth.LoginPath)
	return nil
}
