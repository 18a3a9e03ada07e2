package server

import (
	"portfolio/internal/models"
	"portfolio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// SubmitContact handles POST /api/contact. Submissions are anonymous by
// default; nothing links a message to an authenticated visitor.
func (s *Server) SubmitContact(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Name == "" {
		fields = append(fields, models.FieldError{Field: "name", Message: "Name is required"})
	}
	if req.Email == "" {
		fields = append(fields, models.FieldError{Field: "email", Message: "Email is required"})
	} else if err := validation.ValidateEmail(req.Email); err != nil {
		fields = append(fields, models.FieldError{Field: "email", Message: err.Error()})
	}
	if req.Message == "" {
		fields = append(fields, models.FieldError{Field: "message", Message: "Message is required"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	message := &models.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}
	if err := s.contactRepo.Create(c.Context(), message); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Message received! We will get back to you soon.",
	})
}

// GetContactMessages handles GET /api/cms/contact
func (s *Server) GetContactMessages(c *fiber.Ctx) error {
	messages, err := s.contactRepo.List(c.Context())
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"messages": messages,
	})
}

// MarkMessageRead handles PATCH /api/cms/contact/:id/read
func (s *Server) MarkMessageRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid message ID"))
	}

	message, err := s.contactRepo.MarkRead(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"contact": message,
	})
}

// DeleteContactMessage handles DELETE /api/cms/contact/:id
func (s *Server) DeleteContactMessage(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid message ID"))
	}

	if _, err := s.contactRepo.GetByID(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	if err := s.contactRepo.Delete(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Contact message deleted successfully",
	})
}
