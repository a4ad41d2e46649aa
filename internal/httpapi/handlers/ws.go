package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
	"github.com/Cyril-dot/billionBackend/internal/logger"
	"github.com/Cyril-dot/billionBackend/internal/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ChatLiveChannel upgrades to a websocket and subscribes the authenticated
// party to the room's live channel. The socket is push-only: the party keeps
// sending through REST; the socket delivers the counterparty's messages as
// they are appended. The subscription lasts until the peer disconnects.
func (h *Handler) ChatLiveChannel(c *gin.Context) {
	partyID := c.GetString(middleware.PartyIDKey)
	role := c.GetString(middleware.RoleKey)
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}

	if err := h.Chat.EnsureMember(c.Request.Context(), roomID, role, partyID); err != nil {
		failChat(c, err)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		common.Fail(c, http.StatusBadRequest, 10012, "websocket upgrade failed")
		return
	}

	conn := realtime.NewWSConn(ws)
	conn.Start()

	handle := h.Hub.Subscribe(realtime.Party{Role: role, ID: partyID}, roomID, conn)
	logger.Log.Debug("live channel subscribed",
		zap.Uint64("room_id", roomID),
		zap.String("role", role),
		zap.String("handle_id", handle.ID))

	// Block on the read side; returning unsubscribes and closes the socket.
	conn.ReadUntilClose()
	h.Hub.Unsubscribe(handle)
	conn.Close(websocket.CloseNormalClosure, "client disconnected")
}
