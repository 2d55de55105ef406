package api

import "github.com/gofiber/fiber/v2"

// Route is implemented by every feature's API struct; fx collects them in
// the "routes" group and main calls Setup on each.
type Route interface {
	Setup(app *fiber.App)
}
