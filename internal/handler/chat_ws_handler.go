package handler

import (
	"os"

	"ai-studybot-be/internal/pkg/logger"
	internalWS "ai-studybot-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// ChatWsHandler upgrades chat connections onto the hub.
type ChatWsHandler struct {
	hub       *internalWS.Hub
	processor internalWS.ChatProcessor
	logger    logger.ILogger
}

func NewChatWsHandler(hub *internalWS.Hub, processor internalWS.ChatProcessor, log logger.ILogger) *ChatWsHandler {
	return &ChatWsHandler{
		hub:       hub,
		processor: processor,
		logger:    log,
	}
}

// ServeWs authenticates the handshake and upgrades the connection.
// Browsers cannot set headers on WebSocket requests, so the JWT arrives as
// a query parameter.
func (h *ChatWsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("ChatWsHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("ChatWsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID, h.processor)
			h.logger.Info("ChatWsHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket route.
func (h *ChatWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
