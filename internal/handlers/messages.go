package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"adoption-chat-server/internal/services"
	"adoption-chat-server/internal/utils"
)

// MessageHandler handles messaging related requests.
type MessageHandler struct {
	Services *services.Services
	Logger   *slog.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *services.Services, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{Services: svc, Logger: logger}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	Content string `json:"content" conform:"trim" validate:"required,max=5000"`
}

// TypingRequest represents the request body for a typing signal.
type TypingRequest struct {
	IsTyping *bool `json:"isTyping" binding:"required"`
}

// SendMessage handles sending a new message.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	conversationID, ok := bindConversationURI(c)
	if !ok {
		return
	}
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	senderID, ok := callerID(c)
	if !ok {
		return
	}

	message, err := h.Services.Messaging.SendMessage(c.Request.Context(), conversationID, senderID, req.Content)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Created(c, "Message sent successfully", message)
}

// GetMessages returns a page of a conversation's history, oldest first.
func (h *MessageHandler) GetMessages(c *gin.Context) {
	conversationID, ok := bindConversationURI(c)
	if !ok {
		return
	}
	var q PageQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	page, err := h.Services.Query.ListMessages(c.Request.Context(), conversationID, userID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Messages fetched successfully", page)
}

// MarkAsRead marks every message from the other participant as read.
func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	conversationID, ok := bindConversationURI(c)
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	updated, err := h.Services.Messaging.MarkAsRead(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Messages marked as read", gin.H{"updatedCount": updated})
}

// SetTyping stores the caller's typing signal.
func (h *MessageHandler) SetTyping(c *gin.Context) {
	conversationID, ok := bindConversationURI(c)
	if !ok {
		return
	}
	var req TypingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.Services.Typing.SetTyping(c.Request.Context(), conversationID, userID, *req.IsTyping); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Typing status updated", gin.H{"isTyping": *req.IsTyping})
}

// GetUnreadCount returns the caller's unread total across all conversations.
func (h *MessageHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	count, err := h.Services.Messaging.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Unread count fetched successfully", gin.H{"unreadCount": count})
}
