// internal/interfaces/http/handlers/response.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/coffee-backend/internal/pkg/apperror"
)

// statusFor maps an error kind to the HTTP status a client sees
func statusFor(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return http.StatusBadRequest
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(apperror.KindOf(err))

	message := err.Error()
	if status == http.StatusInternalServerError {
		// Attach for the request logger, keep store details out of the response
		_ = c.Error(err)
		message = "Internal server error"
	}

	c.JSON(status, gin.H{
		"error": message,
		"code":  apperror.CodeOf(err),
	})
}

func respondInvalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{
		"message": message,
		"data":    data,
	})
}
