package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gallery-backend/internal/events"
	"gallery-backend/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins, tighten for production
		return true
	},
}

type EventsHandler struct {
	hub *events.Hub
}

func NewEventsHandler(hub *events.Hub) *EventsHandler {
	return &EventsHandler{hub: hub}
}

// Subscribe godoc
// @Summary     Subscribe to a session's progress events
// @Description Upgrades to a websocket and joins the session's channel. Holding the
// @Description session identifier is the only access control; there is no replay for
// @Description subscribers who join after an event fires.
// @Tags        events
// @Param       session_id path string true "Upload session identifier"
// @Success     101 {string} string "switching protocols"
// @Failure     400 {object} models.ErrorResponse
// @Router      /ws/sessions/{session_id} [get]
func (h *EventsHandler) Subscribe(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "session id is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("events: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	channel := events.SessionChannel(sessionID)
	sub := h.hub.Join(channel, conn)
	defer h.hub.Leave(channel, sub)

	// Block until the client goes away. Inbound frames are not part of the
	// protocol and are discarded.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
