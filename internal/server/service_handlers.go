package server

import (
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetServices handles GET /api/services
func (s *Server) GetServices(c *fiber.Ctx) error {
	services, err := s.serviceRepo.List(c.Context())
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"services": services,
	})
}

// GetService handles GET /api/services/:id
func (s *Server) GetService(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid service ID"))
	}

	service, err := s.serviceRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"service": service,
	})
}

type serviceRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Icon            string   `json:"icon"`
	IconBgColor     string   `json:"iconBgColor"`
	Features        []string `json:"features"`
	Price           *string  `json:"price"`
	EngagementModel *string  `json:"engagementModel"`
	Popular         *bool    `json:"popular"`
}

// CreateService handles POST /api/cms/services
func (s *Server) CreateService(c *fiber.Ctx) error {
	var req serviceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Title == "" {
		fields = append(fields, models.FieldError{Field: "title", Message: "Title is required"})
	}
	if req.Description == "" {
		fields = append(fields, models.FieldError{Field: "description", Message: "Description is required"})
	}
	if req.Icon == "" {
		fields = append(fields, models.FieldError{Field: "icon", Message: "Icon is required"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	claims := claimsFromContext(c)
	service := &models.Service{
		Title:       req.Title,
		Description: req.Description,
		Icon:        req.Icon,
		IconBgColor: req.IconBgColor,
		Features:    req.Features,
		UserID:      &claims.UserID,
	}
	if req.Features == nil {
		service.Features = []string{}
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.EngagementModel != nil {
		service.EngagementModel = *req.EngagementModel
	}
	if req.Popular != nil {
		service.Popular = *req.Popular
	}

	if err := s.serviceRepo.Create(c.Context(), service); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"service": service,
	})
}

// UpdateService handles PUT /api/cms/services/:id, merging only supplied fields.
func (s *Server) UpdateService(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid service ID"))
	}

	service, err := s.serviceRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	var req serviceRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		service.Title = req.Title
	}
	if req.Description != "" {
		service.Description = req.Description
	}
	if req.Icon != "" {
		service.Icon = req.Icon
	}
	if req.IconBgColor != "" {
		service.IconBgColor = req.IconBgColor
	}
	if req.Features != nil {
		service.Features = req.Features
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.EngagementModel != nil {
		service.EngagementModel = *req.EngagementModel
	}
	if req.Popular != nil {
		service.Popular = *req.Popular
	}

	if err := s.serviceRepo.Update(c.Context(), service); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"service": service,
	})
}

// DeleteService handles DELETE /api/cms/services/:id
func (s *Server) DeleteService(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid service ID"))
	}

	if _, err := s.serviceRepo.GetByID(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	if err := s.serviceRepo.Delete(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Service deleted successfully",
	})
}
