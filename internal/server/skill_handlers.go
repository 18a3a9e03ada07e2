package server

import (
	"time"

	"portfolio/internal/cache"
	"portfolio/internal/models"

	"github.com/gofiber/fiber/v2"
)

const skillsCacheKey = "public:skills"

// GetSkills handles GET /api/skills, returning groups with nested skills.
func (s *Server) GetSkills(c *fiber.Ctx) error {
	var groups []models.SkillGroup
	err := cache.CacheAside(c.Context(), skillsCacheKey, &groups, 5*time.Minute, func() error {
		var ferr error
		groups, ferr = s.skillRepo.ListGroups(c.Context())
		return ferr
	})
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"skillGroups": groups,
	})
}

// CreateSkillGroup handles POST /api/cms/skills/groups
func (s *Server) CreateSkillGroup(c *fiber.Ctx) error {
	var req struct {
		Title       string `json:"title"`
		Icon        string `json:"icon"`
		IconBgColor string `json:"iconBgColor"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Title == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error",
				models.FieldError{Field: "title", Message: "Title is required"}))
	}

	group := &models.SkillGroup{
		Title:       req.Title,
		Icon:        req.Icon,
		IconBgColor: req.IconBgColor,
	}
	if err := s.skillRepo.CreateGroup(c.Context(), group); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":    true,
		"skillGroup": group,
	})
}

// UpdateSkillGroup handles PUT /api/cms/skills/groups/:id
func (s *Server) UpdateSkillGroup(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid skill group ID"))
	}

	group, err := s.skillRepo.GetGroupByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	var req struct {
		Title       string `json:"title"`
		Icon        string `json:"icon"`
		IconBgColor string `json:"iconBgColor"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Title != "" {
		group.Title = req.Title
	}
	if req.Icon != "" {
		group.Icon = req.Icon
	}
	if req.IconBgColor != "" {
		group.IconBgColor = req.IconBgColor
	}

	if err := s.skillRepo.UpdateGroup(c.Context(), group); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.JSON(fiber.Map{
		"success":    true,
		"skillGroup": group,
	})
}

// DeleteSkillGroup handles DELETE /api/cms/skills/groups/:id
func (s *Server) DeleteSkillGroup(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid skill group ID"))
	}

	if _, err := s.skillRepo.GetGroupByID(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	if err := s.skillRepo.DeleteGroup(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Skill group deleted successfully",
	})
}

// CreateSkill handles POST /api/cms/skills
func (s *Server) CreateSkill(c *fiber.Ctx) error {
	var req struct {
		Name    string `json:"name"`
		Color   string `json:"color"`
		GroupID uint   `json:"groupId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fields []models.FieldError
	if req.Name == "" {
		fields = append(fields, models.FieldError{Field: "name", Message: "Name is required"})
	}
	if req.GroupID == 0 {
		fields = append(fields, models.FieldError{Field: "groupId", Message: "Group ID is required"})
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	skill := &models.Skill{
		Name:    req.Name,
		Color:   req.Color,
		GroupID: req.GroupID,
	}
	if err := s.skillRepo.CreateSkill(c.Context(), skill); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// UpdateSkill handles PUT /api/cms/skills/:id
func (s *Server) UpdateSkill(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid skill ID"))
	}

	skill, err := s.skillRepo.GetSkillByID(c.Context(), uint(id))
	if err != nil {
		return respondRepositoryError(c, err)
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Name != "" {
		skill.Name = req.Name
	}
	if req.Color != "" {
		skill.Color = req.Color
	}

	if err := s.skillRepo.UpdateSkill(c.Context(), skill); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"skill":   skill,
	})
}

// DeleteSkill handles DELETE /api/cms/skills/:id
func (s *Server) DeleteSkill(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid skill ID"))
	}

	if _, err := s.skillRepo.GetSkillByID(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	if err := s.skillRepo.DeleteSkill(c.Context(), uint(id)); err != nil {
		return respondRepositoryError(c, err)
	}
	cache.Invalidate(c.Context(), skillsCacheKey)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Skill deleted successfully",
	})
}
