package live

import (
	"net/http"

	"studiobooking/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws/bookings", h.Subscribe)
}

// Subscribe upgrades the request and streams booking events until the client
// disconnects.
func (h *Handler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "WEBSOCKET_UPGRADE_FAILED", "Could not upgrade connection")
		return
	}
	h.hub.ServeWS(conn)
}
