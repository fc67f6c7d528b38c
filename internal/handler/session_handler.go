package handler

import (
	"context"
	"errors"

	"petmatch/internal/pkg/logger"
	internalWS "petmatch/internal/websocket"
	"petmatch/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// SessionHandler pushes auth-state changes to open pages over a websocket.
type SessionHandler struct {
	provider   auth.Provider
	cookieName string
	logger     logger.ILogger
}

func NewSessionHandler(provider auth.Provider, cookieName string, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		provider:   provider,
		cookieName: cookieName,
		logger:     log,
	}
}

func (h *SessionHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/session", h.ServeWs)
}

// ServeWs upgrades requests that carry a live session cookie.
func (h *SessionHandler) ServeWs(c *fiber.Ctx) error {
	sessionID := utils.CopyString(c.Cookies(h.cookieName))

	if _, err := h.provider.GetSession(c.UserContext(), sessionID); err != nil {
		if !errors.Is(err, auth.ErrNoSession) {
			h.logger.Error("SessionHandler", "Session lookup failed", map[string]interface{}{"error": err.Error()})
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "No active session"})
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("SessionHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
		internalWS.ServeSession(context.Background(), h.provider, conn, sessionID, h.logger)
		h.logger.Info("SessionHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
	})(c)
}
