package notes

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

type saveRequest struct {
	ActivityID string `json:"activity_id"`
	Note       string `json:"note"`
}

func (h *Handler) Save(c *fiber.Ctx) error {
	var req saveRequest
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.Save(c.UserContext(), middleware.UserID(c), req.ActivityID, req.Note); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusCreated, "Created: Note saved.")
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), middleware.UserID(c), httpx.Param(c, "activity_id")); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusOK, "OK: Note deleted.")
}

func (h *Handler) Get(c *fiber.Ctx) error {
	n, err := h.svc.Get(c.UserContext(), middleware.UserID(c), httpx.Param(c, "activity_id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(n)
}
