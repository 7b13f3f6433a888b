package domain

import (
	"fmt"
	"net/http"
)

const (
	CodeMerchantNotFound = "MERCHANT_NOT_FOUND"
	CodeMerchantInactive = "MERCHANT_INACTIVE"
	CodeValidationError  = "VALIDATION_ERROR"
	CodeQuotaExceeded    = "QUOTA_EXCEEDED"
	CodeChannelNotFound  = "CHANNEL_NOT_FOUND"
	CodeGatewayError     = "GATEWAY_ERROR"
)

// AppError is the error surface returned to API callers. Handlers map
// Status/Code directly; anything that is not an AppError becomes a 500.
type AppError struct {
	Code    string
	Status  int
	Message string
	Details map[string]interface{}
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func ErrMerchantNotFound() *AppError {
	return &AppError{Code: CodeMerchantNotFound, Status: http.StatusNotFound, Message: "merchant not found"}
}

func ErrMerchantInactive(reason string) *AppError {
	return &AppError{Code: CodeMerchantInactive, Status: http.StatusForbidden, Message: reason}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: CodeValidationError, Status: http.StatusBadRequest, Message: msg}
}

func ErrChannelNotFound() *AppError {
	return &AppError{Code: CodeChannelNotFound, Status: http.StatusNotFound, Message: "channel not found or inactive"}
}

func ErrQuotaExceeded(current, limit int64) *AppError {
	return &AppError{
		Code:    CodeQuotaExceeded,
		Status:  http.StatusTooManyRequests,
		Message: fmt.Sprintf("monthly transaction quota exceeded (%d/%d)", current, limit),
		Details: map[string]interface{}{"current": current, "limit": limit},
	}
}
