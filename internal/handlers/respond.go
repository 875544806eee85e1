package handlers

import (
	"errors"
	"log"

	"cafequest/internal/middleware"
	"cafequest/internal/models"
	"cafequest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// currentUser returns the authenticated user placed in Locals by the auth
// middleware. Handlers behind the middleware can rely on it being set.
func currentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(middleware.LocalUser).(*models.User)
	return user
}

// errorResponse maps a service error onto the HTTP contract: validation and
// duplicate failures are 400s, missing or foreign-owned records are 404s,
// credential failures are 401s, everything else is a 500.
func errorResponse(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": verr.Error(),
		})
	case errors.Is(err, services.ErrDuplicate):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Cafe already in your collection",
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Cafe not found",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Invalid credentials",
		})
	default:
		log.Printf("Unhandled error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Server error",
			"error":   err.Error(),
		})
	}
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
	})
}
