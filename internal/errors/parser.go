package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo pairs an error code with a message safe to show to users.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or unexpected error into an ErrorInfo without
// leaking driver details. context names the operation, e.g. "create flavor".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: getDefaultErrorMessage(context),
		}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{
			Code:    ResourceNotFound,
			Message: getNotFoundMessage(context),
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return parseDuplicateKeyError(err.Error())
	}

	errLower := strings.ToLower(err.Error())

	// untranslated driver messages (postgres 23505, sqlite UNIQUE)
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return parseDuplicateKeyError(errLower)
	}

	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{
			Code:    ValidationInvalidInput,
			Message: "One of the values is not allowed",
		}
	}

	if strings.Contains(errLower, "database is locked") ||
		strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "bad connection") {
		return ErrorInfo{
			Code:    InternalDatabaseError,
			Message: "The database is temporarily unavailable. Please try again",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: getDefaultErrorMessage(context),
	}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	if strings.Contains(strings.ToLower(errStr), "name") {
		return ErrorInfo{
			Code:    FlavorNameExists,
			Message: "A flavor with that name already exists",
		}
	}
	return ErrorInfo{
		Code:    ResourceAlreadyExists,
		Message: "That record already exists",
	}
}

func getNotFoundMessage(context string) string {
	if strings.Contains(strings.ToLower(context), "flavor") {
		return "Flavor not found"
	}
	return "The requested data was not found"
}

func getDefaultErrorMessage(context string) string {
	contextLower := strings.ToLower(context)

	switch {
	case strings.Contains(contextLower, "create"):
		return "Could not create the flavor. Please try again later"
	case strings.Contains(contextLower, "update"):
		return "Could not update the flavor. Please try again later"
	case strings.Contains(contextLower, "delete"):
		return "Could not delete the flavor. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond parses err and writes it as an ErrorResponse.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
