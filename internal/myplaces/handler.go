package myplaces

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/httpx"
	"github.com/placefinder/placefinder/internal/middleware"
	"github.com/placefinder/placefinder/internal/places"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createResponse struct {
	ID string `json:"id"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req places.Place
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	mp, err := h.svc.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(createResponse{ID: mp.ID})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req places.Place
	if err := httpx.ParseBody(c, &req); err != nil {
		return err
	}
	if err := h.svc.Update(c.UserContext(), middleware.UserID(c), req); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusOK, "OK: Place updated.")
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), middleware.UserID(c), httpx.Param(c, "id")); err != nil {
		return err
	}
	return httpx.Detail(c, fiber.StatusOK, "OK: Place deleted.")
}

func (h *Handler) Get(c *fiber.Ctx) error {
	mp, err := h.svc.Get(c.UserContext(), middleware.UserID(c), httpx.Param(c, "id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(mp)
}

func (h *Handler) List(c *fiber.Ctx) error {
	out, err := h.svc.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return httpx.Items(c, out)
}

func (h *Handler) ImageUploadURL(c *fiber.Ctx) error {
	up, err := h.svc.ImageUploadURL(c.UserContext(), middleware.UserID(c), httpx.Param(c, "id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(up)
}
