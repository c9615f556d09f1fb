package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/api/dto"
	"github.com/scalebit/admin-console/internal/domain"
)

// UsersHandler exposes the users page.
type UsersHandler struct{}

// NewUsersHandler constructs handler.
func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

// List handles GET /users?q=.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	query := c.Query("q")
	users, err := console.ListUsers(c.UserContext(), query)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.NewListView(users, query, sessionFrom(c)))
}

// Detail handles GET /users/:id.
func (h *UsersHandler) Detail(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := console.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}

	session := sessionFrom(c)
	return data(c, fiber.StatusOK, dto.UserDetailView{
		User:          *user,
		CanEdit:       session.IsAdmin(),
		CanChangeRole: session.IsAdmin() && !session.IsSelf(*user),
	})
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	var req dto.UserCreateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := console.CreateUser(c.UserContext(), sessionFrom(c), domain.NewUser{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, user)
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UserUpdateRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := console.UpdateUser(c.UserContext(), sessionFrom(c), id, domain.UserUpdate{Name: req.Name, Email: req.Email})
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, user)
}

// SetRole handles PUT /users/:id/role.
func (h *UsersHandler) SetRole(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.RoleChangeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := console.SetUserRole(c.UserContext(), sessionFrom(c), id, domain.Role(req.Role))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, user)
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := console.DeleteUser(c.UserContext(), sessionFrom(c), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
