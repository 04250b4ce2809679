package auth

import (
	"github.com/gofiber/fiber/v2"
)

// Guard rejects requests whose principal does not satisfy required before
// the handler runs. Services run the same Check again before touching storage.
func Guard(required RoleSet) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, _ := PrincipalFromContext(c)
		if err := Check(principal, required); err != nil {
			return err
		}
		return c.Next()
	}
}
