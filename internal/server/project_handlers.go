package server

import (
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

const projectsCacheKey = "public:projects"

// GetProjects handles GET /api/projects
func (s *Server) GetProjects(c *fiber.Ctx) error {
	var projects []models.Project
	err := cache.CacheAside(c.Context(), projectsCacheKey, &projects, 5*time.Minute, func() error {
		var ferr error
		projects, ferr = s.projectRepo.List(c.Context())
		return ferr
	})
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"projects": projects,
	})
}

// GetProject handles GET /api/projects/:id
func (s *Server) GetProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid project ID"))
	}

	project, err := s.projectRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

type projectRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	GithubLink  *string  `json:"githubLink"`
	DemoLink    *string  `json:"demoLink"`
	Featured    *bool    `json:"featured"`
}

// CreateProject handles POST /api/cms/projects
func (s *Server) CreateProject(c *fiber.Ctx) error {
	var req projectRequest
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
	if req.Image == "" {
		fields = append(fields, models.FieldError{Field: "image", Message: "Image is required"})
	}
	if req.Category == "" {
		fields = append(fields, models.FieldError{Field: "category", Message: "Category is required"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	claims := claimsFromContext(c)
	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Tags:        req.Tags,
		UserID:      &claims.UserID,
	}
	if req.Tags == nil {
		project.Tags = []string{}
	}
	if req.GithubLink != nil {
		project.GithubLink = *req.GithubLink
	}
	if req.DemoLink != nil {
		project.DemoLink = *req.DemoLink
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}

	if err := s.projectRepo.Create(c.Context(), project); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), projectsCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

// UpdateProject handles PUT /api/cms/projects/:id, merging only supplied fields.
func (s *Server) UpdateProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid project ID"))
	}

	project, err := s.projectRepo.GetByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	var req projectRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		project.Title = req.Title
	}
	if req.Description != "" {
		project.Description = req.Description
	}
	if req.Image != "" {
		project.Image = req.Image
	}
	if req.Category != "" {
		project.Category = req.Category
	}
	if req.Tags != nil {
		project.Tags = req.Tags
	}
	if req.GithubLink != nil {
		project.GithubLink = *req.GithubLink
	}
	if req.DemoLink != nil {
		project.DemoLink = *req.DemoLink
	}
	if req.Featured != nil {
		project.Featured = *req.Featured
	}

	if err := s.projectRepo.Update(c.Context(), project); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), projectsCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"project": project,
	})
}

// DeleteProject handles DELETE /api/cms/projects/:id
func (s *Server) DeleteProject(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid project ID"))
	}

	if _, err := s.projectRepo.GetByID(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	if err := s.projectRepo.Delete(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), projectsCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Project deleted successfully",
	})
}
