package server

import (
	"fmt"

	"portfolio/internal/models"
	"portfolio/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// UploadImage handles POST /api/cms/upload/image: standalone image uploads
// for embedding in post bodies.
func (s *Server) UploadImage(c *fiber.Ctx) error {
	header, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image file is required",
				models.FieldError{Field: "image", Message: "Image file is required"}))
	}

	data, contentType, appErr := readImageUpload("image", header)
	if appErr != nil {
		return respondRepositoryError(c, appErr)
	}
	data, contentType, ext := normalizeImage(data, contentType)

	key := storage.ImageKey(fmt.Sprintf("%s.%s", uuid.New().String(), ext))
	locator, err := s.store.UploadBinary(c.Context(), key, data, contentType)
	if err != nil {
		return respondStorageError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"url":     locator,
		"key":     key,
	})
}
