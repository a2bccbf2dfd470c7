// Package dto holds the JSON envelopes shared by every HTTP response.
package dto

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the success envelope
type Response struct {
	Status string `json:"status" example:"success"`
	Data   any    `json:"data"`
	Meta   *Meta  `json:"meta,omitempty"`
}

// Meta carries pagination information for list responses
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// ErrorResponse is the error envelope
type ErrorResponse struct {
	Status    string            `json:"status" example:"error"`
	Message   string            `json:"message" example:"Validation failed"`
	Code      string            `json:"code,omitempty" example:"VALIDATION_ERROR"`
	Errors    []ValidationError `json:"errors,omitempty"`
	RequestID string            `json:"requestId,omitempty"`
}

// ValidationError describes one violated field
type ValidationError struct {
	Field   string `json:"field" example:"email"`
	Message string `json:"message" example:"Invalid email format"`
}

// NewSuccessResponse wraps data in the success envelope
func NewSuccessResponse(data any) Response {
	return Response{Status: StatusSuccess, Data: data}
}

// NewListResponse wraps a page of results with its pagination meta
func NewListResponse(data any, total int64, page, pageSize int) Response {
	return Response{Status: StatusSuccess, Data: data, Meta: NewMeta(total, page, pageSize)}
}

// NewMeta computes the page count for a list response
func NewMeta(total int64, page, pageSize int) *Meta {
	var totalPages int64
	if pageSize > 0 {
		totalPages = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return &Meta{Page: page, PageSize: pageSize, Total: total, TotalPages: totalPages}
}

// NewErrorResponse builds the error envelope
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{Status: StatusError, Code: code, Message: message}
}

// NewValidationErrorResponse builds the error envelope listing every violation
func NewValidationErrorResponse(errs []ValidationError) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Code:    ErrCodeValidation,
		Message: MsgValidationFailed,
		Errors:  errs,
	}
}
