package handler

import "github.com/profman23/fluffnwoof-sub005/internal/interfaces/http/dto"

// APIResponse is the envelope referenced by the swag annotations on
// handler methods. Runtime responses are built through dto helpers.
// @Description Standard API response wrapper with typed data field
type APIResponse[T any] struct {
	Success bool           `json:"success"`
	Data    T              `json:"data,omitempty"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
	Meta    *dto.Meta      `json:"meta,omitempty"`
}

// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// @Description Simple success response without data
type SuccessResponse struct {
	Success bool `json:"success" example:"true"`
}
