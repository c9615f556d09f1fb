package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/api/dto"
)

// AuthHandler serves the login, register and logout entry points.
type AuthHandler struct{}

// NewAuthHandler constructs handler.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// LoginPage handles GET /login.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return data(c, fiber.StatusOK, dto.PageView{Page: "login", Session: dto.NewSessionView(sessionFrom(c))})
}

// Login handles POST /login. On success the session id is rotated and the
// session middleware redirects home.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := console.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if err := rotateSession(c); err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewSessionView(session))
}

// RegisterPage handles GET /register.
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	return data(c, fiber.StatusOK, dto.PageView{Page: "register", Session: dto.NewSessionView(sessionFrom(c))})
}

// Register handles POST /register. The login redirect is delayed so the
// confirmation can be shown first.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.RegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := console.Register(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, fiber.Map{
		"message": "Registration successful. Redirecting to login...",
		"user":    user,
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	if err := console.Logout(c.UserContext()); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
