package handlers

import (
	"cafequest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// DiscoverHandler handles HTTP requests for the public discover feed.
type DiscoverHandler struct {
	service *services.DiscoverService
}

// NewDiscoverHandler creates a new DiscoverHandler.
func NewDiscoverHandler(service *services.DiscoverService) *DiscoverHandler {
	return &DiscoverHandler{
		service: service,
	}
}

// RegisterRoutes registers the discover routes behind the auth middleware.
func (h *DiscoverHandler) RegisterRoutes(router fiber.Router) {
	discoverRoutes := router.Group("/discover")
	discoverRoutes.Get("/", h.HandleList)
	discoverRoutes.Post("/:id/save", h.HandleSave)
}

// HandleList returns a page of public cafes from other users.
func (h *DiscoverHandler) HandleList(c *fiber.Ctx) error {
	page, err := h.service.ListPublic(
		currentUser(c).ID,
		c.Query("tags"),
		c.Query("search"),
		c.QueryInt("page", 1),
		c.QueryInt("limit", services.DefaultDiscoverLimit),
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(page)
}

// HandleSave clones a discovered cafe into the caller's wishlist.
func (h *DiscoverHandler) HandleSave(c *fiber.Ctx) error {
	cafe, err := h.service.SaveToWishlist(currentUser(c).ID, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cafe)
}
