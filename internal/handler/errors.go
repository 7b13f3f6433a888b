package handler

import (
	"errors"
	"log"
	"net/http"

	"pesaflow/internal/domain"
	"pesaflow/pkg/mpesa"

	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto the API taxonomy. Gateway errors
// pass the provider's HTTP status through where one was available.
func respondError(c *gin.Context, err error) {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		body := gin.H{"code": appErr.Code, "error": appErr.Message}
		for k, v := range appErr.Details {
			body[k] = v
		}
		c.JSON(appErr.Status, body)
		return
	}
	var gwErr *mpesa.GatewayError
	if errors.As(err, &gwErr) {
		status := gwErr.HTTPStatus
		if status < http.StatusBadRequest {
			// Daraja rejects some pushes with a 200 and a non-zero code
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"code": domain.CodeGatewayError, "error": gwErr.Description})
		return
	}
	log.Printf("[API] internal error: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
