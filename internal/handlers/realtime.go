// internal/handlers/realtime.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/swapkaro/swapkaro-backend/internal/realtime"
	"github.com/swapkaro/swapkaro-backend/internal/services"
	"github.com/swapkaro/swapkaro-backend/internal/utils"
)

type RealtimeHandler struct {
	hub                 *realtime.Hub
	notificationService *services.NotificationService
	upgrader            websocket.Upgrader
}

func NewRealtimeHandler(hub *realtime.Hub, notificationService *services.NotificationService, allowedOrigins []string) *RealtimeHandler {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		origins[origin] = true
	}

	return &RealtimeHandler{
		hub:                 hub,
		notificationService: notificationService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// Non-browser clients send no origin
				if origin == "" || len(origins) == 0 {
					return true
				}
				return origins[origin]
			},
		},
	}
}

// GET /ws
func (h *RealtimeHandler) Connect(c *gin.Context) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		logrus.WithError(err).WithField("user_id", userID).Warn("Websocket upgrade failed")
		return
	}

	h.hub.Serve(realtime.NewClient(userID, conn))
}

// GET /notifications
func (h *RealtimeHandler) Notifications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notifications, err := h.notificationService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
	})
}
