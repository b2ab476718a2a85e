package places

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/httpx"
)

// Handler exposes the public catalog endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return httpx.Items(c, out)
}

func (h *Handler) Get(c *fiber.Ctx) error {
	p, err := h.svc.Get(c.UserContext(), httpx.Param(c, "id"))
	if err != nil {
		return err
	}
	return httpx.Items(c, []Place{p})
}

func (h *Handler) Nearby(c *fiber.Ctx) error {
	out, err := h.svc.Nearby(c.UserContext(), httpx.Param(c, "gps"))
	if err != nil {
		return err
	}
	return httpx.Items(c, out)
}

func (h *Handler) ByCategory(c *fiber.Ctx) error {
	out, err := h.svc.ByCategory(c.UserContext(), httpx.Param(c, "category"))
	if err != nil {
		return err
	}
	return httpx.Items(c, out)
}
