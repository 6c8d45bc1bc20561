package domain

import "errors"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageSize = 6
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedValidation     = "validation failed"

	ErrParseID        = errors.New("failed to parse id")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrInvalidQuery   = errors.New("invalid query parameter")
	ErrBodyRequest    = errors.New("failed to parse request body")
	ErrJWTSecretEmpty = errors.New("jwt secret is not configured")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}
