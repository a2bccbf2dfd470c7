package handler

import "github.com/pdv/backend/internal/interfaces/http/dto"

// APIResponse documents the success envelope with a typed data field
// @Description Standard success envelope
type APIResponse[T any] struct {
	Status string `json:"status" example:"success"`
	Data   T      `json:"data"`
}

// ListResponse documents the success envelope of paginated endpoints
// @Description Paginated success envelope
type ListResponse[T any] struct {
	Status string    `json:"status" example:"success"`
	Data   []T       `json:"data"`
	Meta   *dto.Meta `json:"meta"`
}

// ErrorResponse documents the error envelope
// @Description Standard error envelope
type ErrorResponse struct {
	Status    string                `json:"status" example:"error"`
	Message   string                `json:"message" example:"Validation failed"`
	Code      string                `json:"code,omitempty" example:"VALIDATION_ERROR"`
	Errors    []dto.ValidationError `json:"errors,omitempty"`
	RequestID string                `json:"requestId,omitempty"`
}

// MessageData is a data payload carrying only a message
type MessageData struct {
	Message string `json:"message" example:"Logged out"`
}
