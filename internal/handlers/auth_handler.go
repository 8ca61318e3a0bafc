package handlers

import (
	"etalase/internal/apperrors"
	"etalase/internal/session"
	"etalase/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler exposes the session façade over HTTP.
type AuthHandler struct {
	facade  *session.Facade
	members fiber.Handler
	logger  *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. members guards the profile patch.
func NewAuthHandler(facade *session.Facade, members fiber.Handler, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, members: members, logger: logger}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/anonymous", h.HandleLoginAnonymously)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Post("/guest-upgrade", h.HandleGuestUpgrade)
	authRoutes.Get("/pending-signup", h.HandlePendingSignup)
	authRoutes.Get("/session", h.HandleSession)
	authRoutes.Patch("/profile", h.members, h.HandleUpdateProfile)
}

// HandleLogin signs a registered user in.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	snap, err := h.facade.Login(c.UserContext(), form)
	if err != nil {
		return respondError(c, h.logger, "Authentication failed", err)
	}
	return c.JSON(fiber.Map{"message": "Login successful", "session": snap, "token": tokenOf(snap)})
}

// HandleSignup creates an account and signs it in.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var form validation.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	snap, err := h.facade.Signup(c.UserContext(), form)
	if err != nil {
		if snap.IsMember() && apperrors.IsFetch(err) {
			// The account exists; only the profile record failed to save.
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{
				"message": "Account created, but the profile could not be saved",
				"session": snap,
				"token":   tokenOf(snap),
				"retry":   true,
			})
		}
		return respondError(c, h.logger, "Registration failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "User registered successfully", "session": snap, "token": tokenOf(snap)})
}

// HandleLoginAnonymously starts a guest session.
func (h *AuthHandler) HandleLoginAnonymously(c *fiber.Ctx) error {
	snap, err := h.facade.LoginAnonymously(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not start a guest session", err)
	}
	return c.JSON(fiber.Map{"message": "Guest session started", "session": snap, "token": tokenOf(snap)})
}

// HandleResetPassword sends a password-reset email.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var form validation.ResetForm
	if err := c.BodyParser(&form); err != nil {
		return invalidBody(c, err)
	}
	if err := h.facade.ResetPassword(c.UserContext(), form); err != nil {
		return respondError(c, h.logger, "Could not send reset email", err)
	}
	return c.JSON(fiber.Map{"message": "Password reset email sent"})
}

// HandleLogout ends the current session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Signed out", "session": h.facade.Logout(c.UserContext())})
}

// HandleGuestUpgrade ends a guest session and flags the next launch for signup.
func (h *AuthHandler) HandleGuestUpgrade(c *fiber.Ctx) error {
	if err := h.facade.LogoutGuestAndSignup(c.UserContext()); err != nil {
		return respondError(c, h.logger, "Could not end the guest session", err)
	}
	return c.JSON(fiber.Map{"message": "Guest session ended; continue to signup", "session": h.facade.Store().Current()})
}

// HandlePendingSignup reads and clears the pending-signup flag.
func (h *AuthHandler) HandlePendingSignup(c *fiber.Ctx) error {
	pending, err := h.facade.ConsumePendingSignup(c.UserContext())
	if err != nil {
		return respondError(c, h.logger, "Could not read the pending signup flag", err)
	}
	return c.JSON(fiber.Map{"pendingSignup": pending})
}

// HandleSession returns the current session.
func (h *AuthHandler) HandleSession(c *fiber.Ctx) error {
	return c.JSON(h.facade.Store().Current())
}

// HandleUpdateProfile patches the signed-in user's profile record.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var patch validation.ProfilePatch
	if err := c.BodyParser(&patch); err != nil {
		return invalidBody(c, err)
	}
	snap, err := h.facade.UpdateUserProfile(c.UserContext(), patch)
	if err != nil {
		return respondError(c, h.logger, "Could not update profile", err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated", "session": snap})
}

// tokenOf returns the id token the client must send as a bearer token on
// member-only routes.
func tokenOf(snap session.Snapshot) string {
	if snap.Identity == nil {
		return ""
	}
	return snap.Identity.Token
}
