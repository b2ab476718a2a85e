package favorites

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/middleware"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type activityRequest struct {
	ActivityID string `json:"activity_id"`
}

func (h *Handler) Add(c *fiber.Ctx) error {
	var req activityRequest
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.Add(c.UserContext(), middleware.UserID(c), req.ActivityID); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusCreated, "Created: Place added to favourites.")
}

func (h *Handler) Remove(c *fiber.Ctx) error {
	var req activityRequest
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.Remove(c.UserContext(), middleware.UserID(c), req.ActivityID); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusOK, "OK: Place removed from favourites.")
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return httpx.Items(c, out)
}
