package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whogoodluck/chatapp/middlewares"
	"github.com/whogoodluck/chatapp/services"
	"github.com/whogoodluck/chatapp/utils"
)

// MessageController handles message exchange and read-state endpoints.
type MessageController struct {
	messages *services.MessageService
	logger   *zap.SugaredLogger
}

func NewMessageController(messages *services.MessageService, logger *zap.SugaredLogger) *MessageController {
	return &MessageController{messages: messages, logger: logger}
}

type sendMessageRequest struct {
	Content     string `json:"content" binding:"required"`
	MessageType string `json:"message_type" binding:"omitempty,oneof=TEXT IMAGE FILE"`
}

// Send stores a message from the authenticated user.
func (ctrl *MessageController) Send(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	message, err := ctrl.messages.Create(c.Request.Context(), req.Content, middlewares.UserID(c), c.Param("id"), req.MessageType)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondCreated(c, message)
}

// List returns one page of the conversation's messages, oldest first
// within the page.
func (ctrl *MessageController) List(c *gin.Context) {
	page, limit := pageParams(c, 50)

	messages, err := ctrl.messages.ListFor(c.Request.Context(), c.Param("id"), middlewares.UserID(c), page, limit)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, messages, gin.H{"page": page, "limit": limit})
}

type updateMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// Update edits the authenticated user's own message.
func (ctrl *MessageController) Update(c *gin.Context) {
	var req updateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	message, err := ctrl.messages.Update(c.Request.Context(), c.Param("id"), req.Content, middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, message, nil)
}

// Delete removes the authenticated user's own message.
func (ctrl *MessageController) Delete(c *gin.Context) {
	err := ctrl.messages.Delete(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "message deleted"}, nil)
}

// MarkRead moves the caller's last-read marker in the conversation.
func (ctrl *MessageController) MarkRead(c *gin.Context) {
	err := ctrl.messages.MarkRead(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "marked as read"}, nil)
}

// UnreadCount returns how many unread messages the caller has in the
// conversation.
func (ctrl *MessageController) UnreadCount(c *gin.Context) {
	count, err := ctrl.messages.UnreadCount(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"unread_count": count}, nil)
}
