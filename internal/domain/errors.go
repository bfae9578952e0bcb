package domain

import "errors"

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid post status")
	ErrInvalidScore  = errors.New("engagement score must be non-negative")
)
