package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whogoodluck/chatapp/middlewares"
	"github.com/whogoodluck/chatapp/services"
	"github.com/whogoodluck/chatapp/utils"
)

// UserController handles registration, login and profile endpoints.
type UserController struct {
	users     *services.UserService
	jwtSecret string
	logger    *zap.SugaredLogger
}

func NewUserController(users *services.UserService, jwtSecret string, logger *zap.SugaredLogger) *UserController {
	return &UserController{users: users, jwtSecret: jwtSecret, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// Register creates an account and returns a session token.
func (ctrl *UserController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctrl.users.Create(c.Request.Context(), req.Email, req.FullName, req.Password)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	token, err := services.GenerateToken(user, ctrl.jwtSecret)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondCreated(c, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login checks credentials, marks the user online and returns a session
// token.
func (ctrl *UserController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctrl.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	if err := ctrl.users.SetOnline(c.Request.Context(), user.ID, true); err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	token, err := services.GenerateToken(user, ctrl.jwtSecret)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"token": token, "user": user}, nil)
}

// Logout marks the user offline and stamps last_seen.
func (ctrl *UserController) Logout(c *gin.Context) {
	userID := middlewares.UserID(c)

	if err := ctrl.users.SetOnline(c.Request.Context(), userID, false); err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "logged out"}, nil)
}

// GetUserInfo returns the authenticated user's profile.
func (ctrl *UserController) GetUserInfo(c *gin.Context) {
	user, err := ctrl.users.GetByID(c.Request.Context(), middlewares.UserID(c))
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, user, nil)
}

type updateProfileRequest struct {
	Username *string `json:"username" binding:"omitempty,min=3,max=20"`
	FullName *string `json:"full_name" binding:"omitempty,min=2,max=50"`
	Avatar   *string `json:"avatar" binding:"omitempty,url"`
}

// UpdateProfile applies the provided profile fields.
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := ctrl.users.UpdateProfile(c.Request.Context(), middlewares.UserID(c), services.ProfileUpdate{
		Username: req.Username,
		FullName: req.FullName,
		Avatar:   req.Avatar,
	})
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, user, nil)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6,max=100"`
}

// ChangePassword verifies the current password and stores the new one.
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := ctrl.users.ChangePassword(c.Request.Context(), middlewares.UserID(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, gin.H{"message": "password updated"}, nil)
}

// SearchUsers finds users for the invite flow.
func (ctrl *UserController) SearchUsers(c *gin.Context) {
	query := c.Query("query")

	users, err := ctrl.users.Search(c.Request.Context(), middlewares.UserID(c), query)
	if err != nil {
		respondServiceError(c, ctrl.logger, err)
		return
	}

	utils.RespondSuccess(c, users, nil)
}
