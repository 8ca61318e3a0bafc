package middleware

import (
	"crypto/subtle"
	"strings"

	"etalase/internal/apperrors"
	"etalase/internal/session"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
)

// TokenValidator checks an id token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (jwt.MapClaims, error)
}

// MembersOnly lets a request through only when a registered account is
// signed in and the request carries that account's id token as
// "Authorization: Bearer <token>". Guests get a 400 validation error; every
// other failure is a 401.
//
// With a validator the token is verified and its user_id claim must match the
// session. Without one (managed provider tokens) it must equal the token the
// session was issued. The signed-in uid is stored in c.Locals("user_id").
func MembersOnly(sessions *session.Store, tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap := sessions.Current()
		switch {
		case snap.IsGuest():
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Guests cannot do this; create an account first",
				"kind":    apperrors.KindValidation,
			})
		case !snap.IsMember():
			return unauthorized(c, "Sign in is required")
		}

		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "") {
			return unauthorized(c, "Authorization header format must be 'Bearer <token>'")
		}
		tokenString := parts[1]

		if tokens != nil {
			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				return unauthorized(c, "Invalid or expired token")
			}
			if uid, _ := claims["user_id"].(string); uid != snap.UID() {
				return unauthorized(c, "Token does not belong to the signed-in account")
			}
		} else if subtle.ConstantTimeCompare([]byte(tokenString), []byte(snap.Identity.Token)) != 1 {
			return unauthorized(c, "Invalid or expired token")
		}

		c.Locals("user_id", snap.UID())
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"message": message,
		"kind":    apperrors.KindAuth,
	})
}
