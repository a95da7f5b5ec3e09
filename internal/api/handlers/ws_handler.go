package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/linskybing/scan2cad/internal/config"
	"github.com/linskybing/scan2cad/internal/events"
	"github.com/linskybing/scan2cad/pkg/response"
	"github.com/linskybing/scan2cad/pkg/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return originAllowed(origin)
	},
}

func originAllowed(origin string) bool {
	for _, prefix := range config.AllowedOrigins {
		if strings.HasPrefix(origin, prefix) {
			return true
		}
	}
	return false
}

type SocketHandler struct {
	hub *events.Hub
}

func NewSocketHandler(hub *events.Hub) *SocketHandler {
	return &SocketHandler{hub: hub}
}

// Serve godoc
// @Summary Live change events
// @Description Upgrades to a websocket that streams {"event", "quotationId", "notificationId"} frames.
// @Tags realtime
// @Param token query string false "JWT for clients that cannot set headers"
// @Success 101
// @Security BearerAuth
// @Router /ws [get]
func (h *SocketHandler) Serve(c *gin.Context) {
	claims, err := utils.GetClaimsFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.ErrorResponse{Error: "Unauthorized"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "userID", claims.UserID, "error", err)
		return
	}
	h.hub.Serve(conn, claims.UserID, claims.IsAdmin)
}
