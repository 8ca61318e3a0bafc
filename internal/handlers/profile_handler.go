package handlers

import (
	"etalase/internal/services"
	"etalase/internal/validation"
	"etalase/internal/viewmodels"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProfileHandler handles business profile writes.
type ProfileHandler struct {
	service  *services.ProfileService
	mapper   viewmodels.Mapper
	members  fiber.Handler
	logger   *zap.Logger
}

// NewProfileHandler creates a new ProfileHandler. members guards every route.
func NewProfileHandler(service *services.ProfileService, mapper viewmodels.Mapper, members fiber.Handler, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, mapper: mapper, members: members, logger: logger}
}

// RegisterRoutes registers the profile routes with the Fiber app.
func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	profileRoutes := router.Group("/profiles", h.members)
	profileRoutes.Post("/", h.HandleCreateProfile)
	profileRoutes.Put("/:id", h.HandleUpdateProfile)
}

// HandleCreateProfile creates the caller's business profile.
func (h *ProfileHandler) HandleCreateProfile(c *fiber.Ctx) error {
	var form validation.BusinessProfileForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	profile, err := h.service.Create(c.UserContext(), form)
	if err != nil {
		return respondError(c, h.logger, "Could not create profile", err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.mapper.Profile(*profile))
}

// HandleUpdateProfile edits a business profile the caller owns.
func (h *ProfileHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var form validation.BusinessProfileForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	profile, err := h.service.Update(c.UserContext(), c.Params("id"), form)
	if err != nil {
		return respondError(c, h.logger, "Could not update profile", err)
	}
	return c.JSON(h.mapper.Profile(*profile))
}
