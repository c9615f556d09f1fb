package http

import (
	"context"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/scalebit/admin-console/internal/api/http/handlers"
	"github.com/scalebit/admin-console/internal/auth"
	"github.com/scalebit/admin-console/internal/config"
	"github.com/scalebit/admin-console/internal/navigation"
	"github.com/scalebit/admin-console/internal/repository"
	"github.com/scalebit/admin-console/internal/service"
)

// ConsoleSession binds each request to the browser's token slot and turns
// navigations requested while handling it into redirects.
func ConsoleSession(cfg config.ConsoleConfig, slots repository.SlotStore, factory *service.Factory) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies(cfg.CookieName)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			setSessionCookie(c, cfg, sid)
		}

		nav := navigation.NewRecorder(c.Path())
		console := factory.Open(repository.Bind(slots, repository.SessionSlot(sid)), nav)
		handlers.BindConsole(c, console)
		handlers.BindSessionRotation(c, func(ctx context.Context) error {
			fresh, err := rotateSlot(ctx, slots, sid)
			if err != nil {
				return err
			}
			sid = fresh
			setSessionCookie(c, cfg, sid)
			return nil
		})
		auth.BindGuard(c, console.Guard())

		err := c.Next()

		target, delay, pending := nav.Pending()
		if !pending {
			return err
		}
		if delay > 0 {
			if err == nil {
				c.Set("Refresh", strconv.FormatFloat(delay.Seconds(), 'f', -1, 64)+";url="+target)
			}
			return err
		}
		// An immediate navigation wins over whatever the handler produced,
		// including a gateway 401.
		c.Response().ResetBody()
		return c.Redirect(target, auth.RedirectStatus(c.Method()))
	}
}

// rotateSlot moves the token held under sid to a freshly minted session id
// and empties the old slot. A sid the browser arrived with is never trusted
// to carry a newly issued token.
func rotateSlot(ctx context.Context, slots repository.SlotStore, sid string) (string, error) {
	fresh := uuid.NewString()
	from, to := repository.SessionSlot(sid), repository.SessionSlot(fresh)

	token, ok, err := slots.Load(ctx, from)
	if err != nil {
		return "", fmt.Errorf("load session slot: %w", err)
	}
	if ok {
		if err := slots.Save(ctx, to, token); err != nil {
			return "", fmt.Errorf("save rotated slot: %w", err)
		}
	}
	if err := slots.Delete(ctx, from); err != nil {
		return "", fmt.Errorf("clear previous slot: %w", err)
	}
	return fresh, nil
}

func setSessionCookie(c *fiber.Ctx, cfg config.ConsoleConfig, sid string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.CookieName,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
