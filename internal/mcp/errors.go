package mcp

import (
	"errors"
	"fmt"

	"github.com/rowanmb/jobsite/internal/domain/member"
	"github.com/rowanmb/jobsite/internal/domain/project"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// mapError maps domain errors to MCP error codes. Unrecognized errors
// pass through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Check the project ID, or call project_list"}
	case errors.Is(err, member.ErrUserNotFound):
		return &APIError{Code: "USER_NOT_FOUND", Message: "no user with that email", RecoveryHint: "The user must have a profile before a project can be shared with them"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, member.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return err
	}
}
