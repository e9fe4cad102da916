package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes the success envelope. meta is optional and
// carries pagination info when present.
func RespondSuccess(c *gin.Context, data interface{}, meta interface{}) {
	body := gin.H{"data": data}
	if meta != nil {
		body["meta"] = meta
	}
	c.JSON(http.StatusOK, body)
}

// RespondCreated is RespondSuccess with a 201 status.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"data": data})
}

// RespondError writes the error envelope with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}
