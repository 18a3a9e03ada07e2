package server

import (
	"portfolio/internal/auth"
	"portfolio/internal/models"
	"portfolio/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Login handles POST /api/auth/login for the admin CMS.
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username and password are required"))
	}

	user, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return respondRepositoryError(c, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	// Only admins may log in to the CMS
	if !user.IsAdmin() {
		return models.RespondWithError(c, fiber.StatusForbidden,
			models.NewForbiddenError("Admin access required"))
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// RegisterAdmin handles POST /api/auth/register-admin. This is the initial
// setup path: once an admin exists, further registrations require an admin
// token.
func (s *Server) RegisterAdmin(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	var fields []models.FieldError
	if err := validation.ValidateUsername(req.Username); err != nil {
		fields = append(fields, models.FieldError{Field: "username", Message: err.Error()})
	}
	if err := validation.ValidatePassword(req.Password); err != nil {
		fields = append(fields, models.FieldError{Field: "password", Message: err.Error()})
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			fields = append(fields, models.FieldError{Field: "email", Message: err.Error()})
		}
	}
	if len(fields) > 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Validation error", fields...))
	}

	adminCount, err := s.userRepo.CountAdmins(c.Context())
	if err != nil {
		return respondRepositoryError(c, err)
	}
	if adminCount > 0 {
		// Setup already done; only an existing admin may add another.
		claims, err := s.auth.VerifyToken(bearerToken(c))
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Admin registration is closed"))
		}
		if claims.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
	}

	existing, err := s.userRepo.GetByUsername(c.Context(), req.Username)
	if err != nil {
		return respondRepositoryError(c, err)
	}
	if existing != nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("Username already exists"))
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	user := &models.User{
		Username: req.Username,
		Password: hashed,
		Name:     req.Name,
		Email:    req.Email,
		Role:     models.RoleAdmin,
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		return respondRepositoryError(c, err)
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// Me handles GET /api/auth/me, returning the user behind the presented token.
func (s *Server) Me(c *fiber.Ctx) error {
	claims := claimsFromContext(c)
	if claims == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	user, err := s.userRepo.GetByID(c.Context(), claims.UserID)
	if err != nil {
		return respondRepositoryError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}
