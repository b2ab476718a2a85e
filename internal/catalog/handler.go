package catalog

import (
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	syncer *Syncer
}

func NewHandler(syncer *Syncer) *Handler {
	return &Handler{syncer: syncer}
}

type syncResponse struct {
	Synced int `json:"synced"`
}

// UpdateDatabase rebuilds the main catalog now.
func (h *Handler) UpdateDatabase(c *fiber.Ctx) error {
	n, err := h.syncer.Run(c.UserContext())
	if err != nil {
		return err
	}
	if n == 0 {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Status(fiber.StatusOK).JSON(syncResponse{Synced: n})
}
