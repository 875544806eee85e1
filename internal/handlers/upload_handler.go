package handlers

import (
	"errors"
	"log"

	"cafequest/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles image upload and deletion via the media service.
type UploadHandler struct {
	service *services.MediaService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(service *services.MediaService) *UploadHandler {
	return &UploadHandler{
		service: service,
	}
}

// RegisterRoutes registers the upload routes behind the auth middleware.
func (h *UploadHandler) RegisterRoutes(router fiber.Router) {
	uploadRoutes := router.Group("/upload")
	uploadRoutes.Post("/", h.HandleUpload)
	uploadRoutes.Post("/base64", h.HandleUploadBase64)
	uploadRoutes.Delete("/:public_id", h.HandleDelete)
}

// HandleUpload stores a multipart image (form field "image") on the media
// host and returns its URL and public ID.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "No image file provided")
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded file: %v", err)
		return errorResponse(c, err)
	}
	defer file.Close()

	result, err := h.service.Upload(c.Context(), file)
	if err != nil {
		return mediaErrorResponse(c, err, "Error uploading image")
	}
	return c.JSON(result)
}

// Base64UploadRequest represents the body of a base64 upload.
type Base64UploadRequest struct {
	Image string `json:"image"`
}

// HandleUploadBase64 stores a base64 data-URI image on the media host.
func (h *UploadHandler) HandleUploadBase64(c *fiber.Ctx) error {
	var req Base64UploadRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing base64 upload body: %v", err)
		return badRequest(c, "Invalid request body")
	}
	if req.Image == "" {
		return badRequest(c, "No image data provided")
	}

	result, err := h.service.UploadBase64(c.Context(), req.Image)
	if err != nil {
		return mediaErrorResponse(c, err, "Error uploading image")
	}
	return c.JSON(result)
}

// HandleDelete removes an image from the media host.
func (h *UploadHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("public_id")); err != nil {
		return mediaErrorResponse(c, err, "Error deleting image")
	}
	return c.JSON(fiber.Map{
		"message": "Image deleted",
	})
}

// mediaErrorResponse reports a media host failure with the per-operation
// message; any other error keeps the standard mapping.
func mediaErrorResponse(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, services.ErrUpstream) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": message,
		})
	}
	return errorResponse(c, err)
}
