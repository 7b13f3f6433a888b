package handler

import (
	"io"
	"log"
	"net/http"

	"pesaflow/internal/service"

	"github.com/gin-gonic/gin"
)

type CallbackHandler struct {
	processor *service.CallbackProcessor
}

func NewCallbackHandler(processor *service.CallbackProcessor) *CallbackHandler {
	return &CallbackHandler{processor: processor}
}

// HandleMpesa acknowledges the provider immediately and processes the
// callback in the background. The provider retries on non-200s, so internal
// failures never surface here.
func (h *CallbackHandler) HandleMpesa(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Printf("[CALLBACK] reading body failed: %v", err)
		c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
		return
	}
	go h.processor.Process(body)
	c.JSON(http.StatusOK, gin.H{"ResultCode": 0, "ResultDesc": "Accepted"})
}
