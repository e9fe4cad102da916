package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whogoodluck/chatapp/middlewares"
	"github.com/whogoodluck/chatapp/services"
	"github.com/whogoodluck/chatapp/utils"
)

// ConversationController handles conversation and membership endpoints.
type ConversationController struct {
	conversations *services.ConversationService
	logger        *zap.SugaredLogger
}

func NewConversationController(conversations *services.ConversationService, logger *zap.SugaredLogger) *ConversationController {
	return &ConversationController{conversations: conversations, logger: logger}
}

// pageParams reads ?page= and ?limit= with the given default limit.
func pageParams(c *gin.Context, defaultLimit int) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	return page, limit
}

type createConversationRequest struct {
	Name           *string  `json:"name"`
	IsGroup        bool     `json:"is_group"`
	ParticipantIDs []string `json:"participant_ids" binding:"required,min=1"`
}

// Create starts a conversation. The caller is added to the participant
// set if the request omitted them.
func (ctrl *ConversationController) Create(c *gin.Context) {
	var req createConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	callerID := middlewares.UserID(c)
	ids := req.ParticipantIDs
	if !containsID(ids, callerID) {
		ids = append(ids, callerID)
	}

	conv, err := ctrl.conversations.Create(c.Request.Context(), req.Name, req.IsGroup, ids)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondCreated(c, conv)
}

// List returns the caller's conversations, most recently active first.
func (ctrl *ConversationController) List(c *gin.Context) {
	page, limit := pageParams(c, 20)

	conversations, err := ctrl.conversations.List(c.Request.Context(), middlewares.UserID(c), page, limit)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, conversations, gin.H{"page": page, "limit": limit})
}

// GetByID returns a single conversation with all participants.
func (ctrl *ConversationController) GetByID(c *gin.Context) {
	conv, err := ctrl.conversations.GetByID(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, conv, nil)
}

type updateConversationRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

// Update renames a group conversation.
func (ctrl *ConversationController) Update(c *gin.Context) {
	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := ctrl.conversations.Update(c.Request.Context(), c.Param("id"), middlewares.UserID(c), req.Name)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, conv, nil)
}

// Delete removes a conversation with its participants and messages.
func (ctrl *ConversationController) Delete(c *gin.Context) {
	err := ctrl.conversations.Delete(c.Request.Context(), c.Param("id"), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "conversation deleted"}, nil)
}

type addParticipantRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// AddParticipant invites a user into a group conversation.
func (ctrl *ConversationController) AddParticipant(c *gin.Context) {
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	participant, err := ctrl.conversations.AddParticipant(c.Request.Context(), c.Param("id"), middlewares.UserID(c), req.UserID)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondCreated(c, participant)
}

// RemoveParticipant lets a user leave a group conversation.
func (ctrl *ConversationController) RemoveParticipant(c *gin.Context) {
	err := ctrl.conversations.RemoveParticipant(c.Request.Context(), c.Param("id"), middlewares.UserID(c), c.Param("userId"))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "participant removed"}, nil)
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
