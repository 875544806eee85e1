package handlers

import (
	"log"

	"cafequest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication and profiles.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterRoutes registers the public authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterProtectedRoutes registers the token-gated profile routes.
func (h *AuthHandler) RegisterProtectedRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/me", h.HandleMe)
	authRoutes.Put("/profile", h.HandleUpdateProfile)
}

// HandleRegister handles new user registration and issues a token.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	token, user, err := h.authService.Register(req)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles user login and issues a token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	token, user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user":  user,
	})
}

// HandleMe returns the authenticated caller's profile.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	return c.JSON(currentUser(c))
}

// HandleUpdateProfile applies a partial profile update to the caller.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var update services.ProfileUpdate
	if err := c.BodyParser(&update); err != nil {
		log.Printf("Error parsing profile update body: %v", err)
		return badRequest(c, "Invalid request body")
	}

	user, err := h.authService.UpdateProfile(currentUser(c).ID, update)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(user)
}
