package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/scalebit/admin-console/internal/api/dto"
)

// DashboardHandler renders the overview page.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Overview handles GET /.
func (h *DashboardHandler) Overview(c *fiber.Ctx) error {
	console, err := consoleFrom(c)
	if err != nil {
		return err
	}
	stats, err := console.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, dto.DashboardView{
		Session:    dto.NewSessionView(sessionFrom(c)),
		Navigation: dto.Sidebar,
		Stats:      stats,
	})
}
