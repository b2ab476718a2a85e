package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placefinder/placefinder/internal/catalog"
	"github.com/placefinder/placefinder/internal/favorites"
	"github.com/placefinder/placefinder/internal/myplaces"
	"github.com/placefinder/placefinder/internal/notes"
	"github.com/placefinder/placefinder/internal/places"
)

func RegisterPlaceRoutes(r fiber.Router, gate fiber.Handler, h *places.Handler) {
	r.Get("/get_all_places", gate, h.List)
	r.Get("/place", gate, h.Get)
	r.Get("/location_places", gate, h.Nearby)
	r.Get("/place_category", gate, h.ByCategory)
}

func RegisterFavouriteRoutes(r fiber.Router, gate fiber.Handler, h *favorites.Handler) {
	r.Post("/add_favourite", gate, h.Add)
	r.Post("/delete_favourite", gate, h.Remove)
	r.Get("/get_all_favourites", gate, h.List)
}

func RegisterNoteRoutes(r fiber.Router, gate fiber.Handler, h *notes.Handler) {
	r.Put("/add_edit_note", gate, h.Save)
	r.Delete("/delete_note", gate, h.Delete)
	r.Get("/get_note", gate, h.Get)
}

// RegisterMyPlaceRoutes wires user-submitted places. Creation replays a
// stored response when the client repeats its Idempotency-Key.
func RegisterMyPlaceRoutes(r fiber.Router, gate, idempotent fiber.Handler, h *myplaces.Handler) {
	r.Post("/add_my_place", gate, idempotent, h.Create)
	r.Put("/edit_my_place", gate, h.Update)
	r.Delete("/delete_my_place", gate, h.Delete)
	r.Get("/get_my_places", gate, h.List)
	r.Get("/get_my_place", gate, h.Get)
	r.Get("/my_place_image_url", gate, h.ImageUploadURL)
}

func RegisterCatalogRoutes(r fiber.Router, gate fiber.Handler, h *catalog.Handler) {
	r.Put("/update_database", gate, h.UpdateDatabase)
}
