package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/auth"
)

// RegisterAuthRoutes wires the account endpoints. Paths keep their trailing
// slash; Fiber's default non-strict routing also accepts them without it.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, gate, rateLimiter fiber.Handler) {
	r.Post("/signup/", h.Signup)
	if rateLimiter != nil {
		r.Post("/login/", rateLimiter, h.Login)
	} else {
		r.Post("/login/", h.Login)
	}
	r.Put("/forgotten-password/", h.ForgottenPassword)
	r.Patch("/edit_profile/", gate, h.EditProfile)
	r.Delete("/delete_account/", gate, h.DeleteAccount)
}
