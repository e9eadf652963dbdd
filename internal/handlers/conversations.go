package handlers

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"adoption-chat-server/internal/services"
	"adoption-chat-server/internal/utils"
)

// ConversationHandler handles conversation lifecycle and listing requests.
type ConversationHandler struct {
	Services *services.Services
	Logger   *slog.Logger
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(svc *services.Services, logger *slog.Logger) *ConversationHandler {
	return &ConversationHandler{Services: svc, Logger: logger}
}

// CreateConversationRequest represents the request body for starting a conversation.
// The caller is always the adopter.
type CreateConversationRequest struct {
	RehomerID string `json:"rehomerId" binding:"required,uuid"`
	AnimalID  string `json:"animalId" binding:"omitempty,uuid"`
}

// PageQuery holds the optional paging parameters of list endpoints.
type PageQuery struct {
	Page     int `form:"page,default=1" binding:"min=1"`
	PageSize int `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// ConversationURI identifies a conversation in the request path.
type ConversationURI struct {
	ConversationID string `uri:"conversationId" binding:"required,uuid"`
}

func bindConversationURI(c *gin.Context) (string, bool) {
	var uri ConversationURI
	if err := c.ShouldBindUri(&uri); err != nil {
		utils.BadRequest(c, "Invalid conversation ID: "+err.Error())
		return "", false
	}
	return uri.ConversationID, true
}

// CreateConversation returns the caller's conversation with the rehomer about
// the animal, creating it on first contact.
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	adopterID, ok := callerID(c)
	if !ok {
		return
	}
	if req.RehomerID == adopterID {
		utils.BadRequest(c, "Cannot start a conversation with yourself.")
		return
	}

	ctx := c.Request.Context()
	if err := h.Services.Lifecycle.ValidateParticipants(ctx, adopterID, req.RehomerID); err != nil {
		respondError(c, h.Logger, err)
		return
	}

	conv, err := h.Services.Lifecycle.CreateOrGet(ctx, adopterID, req.RehomerID, req.AnimalID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Created(c, "Conversation ready", conv)
}

// GetConversations lists the caller's visible conversations.
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	var q PageQuery
	if !utils.BindQueryAndValidate(c, &q) {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	page, err := h.Services.Query.ListConversations(c.Request.Context(), userID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Conversations fetched successfully", page)
}

// DeleteConversation removes the conversation from the caller's view; once
// both participants have deleted it, it is purged with its messages.
func (h *ConversationHandler) DeleteConversation(c *gin.Context) {
	conversationID, ok := bindConversationURI(c)
	if !ok {
		return
	}
	userID, ok := callerID(c)
	if !ok {
		return
	}

	result, err := h.Services.Lifecycle.Delete(c.Request.Context(), conversationID, userID)
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "Conversation deleted", result)
}

// DeleteAllConversations purges every conversation the caller takes part in.
func (h *ConversationHandler) DeleteAllConversations(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	if err := h.Services.Lifecycle.DeleteAllForUser(c.Request.Context(), userID); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	utils.Success(c, "All conversations deleted", nil)
}
