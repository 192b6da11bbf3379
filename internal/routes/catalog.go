package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/boostpanel/boostpanel/internal/catalog"
)

// RegisterCatalogRoutes wires the public storefront catalog.
func RegisterCatalogRoutes(r fiber.Router, services *catalog.Manager) {
	r.Get("/services", func(c *fiber.Ctx) error {
		visible, err := services.Visible(c.UserContext())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to list services")
		}
		return c.JSON(fiber.Map{"services": toServiceListJSON(visible)})
	})
}
