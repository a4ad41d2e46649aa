package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cyril-dot/billionBackend/internal/chat"
	"github.com/Cyril-dot/billionBackend/internal/common"
	"github.com/Cyril-dot/billionBackend/internal/httpapi/middleware"
)

// failChat maps the chat error taxonomy onto the response envelope.
func failChat(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrRoomNotFound):
		common.Fail(c, http.StatusNotFound, 40410, "chat room not found")
	case errors.Is(err, chat.ErrProductNotFound):
		common.Fail(c, http.StatusNotFound, 40404, "product not found")
	case errors.Is(err, chat.ErrPartyNotFound):
		common.Fail(c, http.StatusNotFound, 40411, "account not found")
	case errors.Is(err, chat.ErrForbidden):
		common.Fail(c, http.StatusForbidden, 40310, "this chat does not belong to you")
	case errors.Is(err, chat.ErrEmptyContent):
		common.Fail(c, http.StatusBadRequest, 10011, "message content cannot be empty")
	default:
		common.Fail(c, http.StatusInternalServerError, 20001, "db error")
	}
}

type startChatReq struct {
	ProductID uint64 `json:"product_id" binding:"required"`
}

// StartChat opens (or returns) the conversation between the authenticated
// customer and the product's merchant.
func (h *Handler) StartChat(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)

	var req startChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	room, err := h.Chat.StartRoom(c.Request.Context(), customerID, req.ProductID)
	if err != nil {
		failChat(c, err)
		return
	}
	common.Created(c, room)
}

func (h *Handler) MyChatRooms(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	rooms, err := h.Chat.RoomsForCustomer(c.Request.Context(), customerID)
	if err != nil {
		failChat(c, err)
		return
	}
	common.OK(c, gin.H{"rooms": rooms})
}

func (h *Handler) MerchantChatRooms(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)
	rooms, err := h.Chat.RoomsForMerchant(c.Request.Context(), merchantID)
	if err != nil {
		failChat(c, err)
		return
	}
	common.OK(c, gin.H{"rooms": rooms})
}

// ChatHistory loads the room's full message log oldest-first; the REST read is
// the source of truth independent of any live subscription.
func (h *Handler) ChatHistory(c *gin.Context) {
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}
	msgs, err := h.Chat.History(c.Request.Context(), roomID)
	if err != nil {
		failChat(c, err)
		return
	}
	common.OK(c, gin.H{"messages": msgs})
}

type sendMessageReq struct {
	Content string `json:"content" binding:"required"`
}

func (h *Handler) CustomerSendMessage(c *gin.Context) {
	customerID := c.GetString(middleware.PartyIDKey)
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	msg, err := h.Dispatch.SendAsCustomer(c.Request.Context(), customerID, roomID, req.Content)
	if err != nil {
		failChat(c, err)
		return
	}
	common.OK(c, msg)
}

func (h *Handler) MerchantSendMessage(c *gin.Context) {
	merchantID := c.GetString(middleware.PartyIDKey)
	roomID, ok := pathID(c, "room_id")
	if !ok {
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	msg, err := h.Dispatch.SendAsMerchant(c.Request.Context(), merchantID, roomID, req.Content)
	if err != nil {
		failChat(c, err)
		return
	}
	common.OK(c, msg)
}
