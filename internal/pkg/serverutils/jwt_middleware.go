// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"petmatch/pkg/auth"

	"github.com/gofiber/fiber/v2"
)

const (
	LocalUserID      = "user_id"
	LocalUser        = "user"
	LocalAccessToken = "access_token"
	LocalSessionID   = "session_id"
	LocalSession     = "session"
)

// JwtMiddleware accepts requests carrying a valid Supabase access token.
func JwtMiddleware(verifier *auth.TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}
		tokenStr := authHeader[7:]

		user, err := verifier.Verify(ctx.UserContext(), tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		ctx.Locals(LocalUserID, user.ID)
		ctx.Locals(LocalUser, user)
		ctx.Locals(LocalAccessToken, tokenStr)
		return ctx.Next()
	}
}
