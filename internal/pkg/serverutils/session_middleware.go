package serverutils

import (
	"errors"

	"petmatch/internal/pkg/logger"
	"petmatch/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// SessionGate lets a request through only when its cookie names a live
// session. Everything else is sent to loginPath.
func SessionGate(provider auth.Provider, cookieName, loginPath string, log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := utils.CopyString(ctx.Cookies(cookieName))

		session, err := provider.GetSession(ctx.UserContext(), sessionID)
		if err != nil {
			if !errors.Is(err, auth.ErrNoSession) {
				log.Error("SessionGate", "Session lookup failed", map[string]interface{}{
					"error": err.Error(),
				})
			}
			ctx.ClearCookie(cookieName)
			return ctx.Redirect(loginPath, fiber.StatusSeeOther)
		}

		ctx.Locals(LocalSessionID, sessionID)
		ctx.Locals(LocalSession, session)
		ctx.Locals(LocalUserID, session.User.ID)
		ctx.Locals(LocalAccessToken, session.AccessToken)
		return ctx.Next()
	}
}
