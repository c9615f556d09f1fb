package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/domain"
	"github.com/scalebit/admin-console/internal/service"
	apperrors "github.com/scalebit/admin-console/pkg/util"
)

const (
	consoleKey  = "console"
	rotationKey = "session_rotation"
)

// SessionRotation re-keys the caller's token slot under a new session id.
type SessionRotation func(ctx context.Context) error

// BindConsole attaches the caller's console to the request.
func BindConsole(c *fiber.Ctx, console *service.Console) {
	c.Locals(consoleKey, console)
}

// BindSessionRotation attaches the rotation the login handler runs once a
// token has been stored.
func BindSessionRotation(c *fiber.Ctx, rotate SessionRotation) {
	c.Locals(rotationKey, rotate)
}

func rotateSession(c *fiber.Ctx) error {
	rotate, ok := c.Locals(rotationKey).(SessionRotation)
	if !ok || rotate == nil {
		return nil
	}
	if err := rotate(c.UserContext()); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func consoleFrom(c *fiber.Ctx) (*service.Console, error) {
	console, ok := c.Locals(consoleKey).(*service.Console)
	if !ok || console == nil {
		return nil, apperrors.NewInternalError(errors.New("console not bound"))
	}
	return console, nil
}

// sessionFrom returns the session RouteGuard computed, or Unauthenticated on
// routes it did not run for.
func sessionFrom(c *fiber.Ctx) domain.Session {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return domain.Unauthenticated()
	}
	return session
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func data(c *fiber.Ctx, status int, payload any) error {
	return c.Status(status).JSON(fiber.Map{"data": payload})
}
