package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/whogoodluck/chatapp/services"
	"github.com/whogoodluck/chatapp/utils"
)

// respondServiceError maps a service error onto its HTTP status and
// writes the error envelope. Unknown errors are logged and reported as
// 500 without leaking details.
func respondServiceError(c *gin.Context, logger *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		utils.RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrNotAParticipant),
		errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyExists):
		utils.RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrNotAGroup),
		errors.Is(err, services.ErrValidation):
		utils.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		logger.Errorw("unhandled service error", "path", c.FullPath(), "error", err)
		utils.RespondError(c, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
	}
}
