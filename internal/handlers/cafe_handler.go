package handlers

import (
	"log"

	"cafequest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CafeHandler handles HTTP requests for the caller's own cafe collection.
type CafeHandler struct {
	service *services.CafeService
}

// NewCafeHandler creates a new CafeHandler.
func NewCafeHandler(service *services.CafeService) *CafeHandler {
	return &CafeHandler{
		service: service,
	}
}

// RegisterRoutes registers the cafe routes. All of them are owner-scoped and
// must sit behind the auth middleware.
func (h *CafeHandler) RegisterRoutes(router fiber.Router) {
	cafeRoutes := router.Group("/cafes")
	cafeRoutes.Get("/", h.HandleList)
	cafeRoutes.Get("/:id", h.HandleGet)
	cafeRoutes.Post("/", h.HandleCreate)
	cafeRoutes.Put("/:id", h.HandleUpdate)
	cafeRoutes.Delete("/:id", h.HandleDelete)
}

// HandleList returns the caller's cafes, optionally filtered by status, tags
// (comma-separated) and a name search.
func (h *CafeHandler) HandleList(c *fiber.Ctx) error {
	cafes, err := h.service.List(
		currentUser(c).ID,
		c.Query("status"),
		c.Query("tags"),
		c.Query("search"),
	)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(cafes)
}

// HandleGet returns a single cafe owned by the caller.
func (h *CafeHandler) HandleGet(c *fiber.Ctx) error {
	cafe, err := h.service.Get(currentUser(c).ID, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(cafe)
}

// HandleCreate creates a new cafe owned by the caller.
func (h *CafeHandler) HandleCreate(c *fiber.Ctx) error {
	var input services.CafeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing cafe create body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	cafe, err := h.service.Create(currentUser(c).ID, input)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cafe)
}

// HandleUpdate applies a partial update to one of the caller's cafes.
func (h *CafeHandler) HandleUpdate(c *fiber.Ctx) error {
	var update services.CafeUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing cafe update body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	cafe, err := h.service.Update(currentUser(c).ID, c.Params("id"), update)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(cafe)
}

// HandleDelete removes one of the caller's cafes.
func (h *CafeHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(currentUser(c).ID, c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Cafe removed",
	})
}
