package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// AppError represents a command error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Is matches AppErrors by code so sentinel values can be used with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code && t.Message == ""
}

// Common error codes
const (
	ErrCodeConfig              = "CONFIG_ERROR"
	ErrCodeUnknownResourceType = "UNKNOWN_RESOURCE_TYPE"
	ErrCodeSchema              = "SCHEMA_ERROR"
	ErrCodeTool                = "TOOL_ERROR"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeCannotPrompt        = "CANNOT_PROMPT"
	ErrCodeNoScopeChoices      = "NO_SCOPE_CHOICES"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeProviderAuth        = "PROVIDER_AUTH_ERROR"
	ErrCodeProviderAPI         = "PROVIDER_API_ERROR"
)

// Sentinels for errors.Is checks. They carry only a code.
var (
	ErrConfig              = &AppError{Code: ErrCodeConfig}
	ErrUnknownResourceType = &AppError{Code: ErrCodeUnknownResourceType}
	ErrSchema              = &AppError{Code: ErrCodeSchema}
	ErrTool                = &AppError{Code: ErrCodeTool}
	ErrValidation          = &AppError{Code: ErrCodeValidation}
	ErrCannotPrompt        = &AppError{Code: ErrCodeCannotPrompt}
	ErrNoScopeChoices      = &AppError{Code: ErrCodeNoScopeChoices}
	ErrNotFound            = &AppError{Code: ErrCodeNotFound}
	ErrProviderAPI         = &AppError{Code: ErrCodeProviderAPI}
)

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Internal: err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Config creates a configuration error. These indicate a programming or
// setup mistake rather than bad user input.
func Config(message string, err error) *AppError {
	return Wrap(err, ErrCodeConfig, message)
}

// UnknownResourceType reports a lookup of an unregistered resource type.
func UnknownResourceType(name string) *AppError {
	return New(ErrCodeUnknownResourceType, fmt.Sprintf("unknown resource type [%s]", name))
}

// Schema reports a malformed message schema.
func Schema(message string) *AppError {
	return New(ErrCodeSchema, message)
}

// Tool creates a user-facing command error
func Tool(format string, args ...interface{}) *AppError {
	return New(ErrCodeTool, fmt.Sprintf(format, args...))
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message).WithDetails(details)
}

// CannotPrompt tells the user which flag would have avoided the prompt.
func CannotPrompt(flagName string) *AppError {
	return New(ErrCodeCannotPrompt, fmt.Sprintf("Unable to prompt. Specify the [%s] flag.", flagName))
}

// NoScopeChoices is returned when the list of zones or regions to choose
// from could not be fetched or came back empty.
func NoScopeChoices(attribute, flagName string, err error) *AppError {
	// Error() appends ": <cause>" when err is set.
	punctuation := "."
	if err != nil {
		punctuation = ""
	}
	return Wrap(err, ErrCodeNoScopeChoices,
		fmt.Sprintf("Unable to fetch a list of %ss. Specifying [%s] may fix this issue%s", attribute, flagName, punctuation))
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// ProviderAuthError creates a provider authentication error
func ProviderAuthError(provider string, err error) *AppError {
	return Wrap(err, ErrCodeProviderAuth,
		fmt.Sprintf("Failed to authenticate with %s", provider))
}

// ProviderAPIError wraps an API failure, keeping the HTTP status when the
// underlying error is a googleapi.Error.
func ProviderAPIError(api string, err error) *AppError {
	appErr := Wrap(err, ErrCodeProviderAPI,
		fmt.Sprintf("Failed to communicate with %s API", api))
	var gerr *googleapi.Error
	if stderrors.As(err, &gerr) {
		appErr.StatusCode = gerr.Code
		if gerr.Code == http.StatusNotFound {
			appErr.Code = ErrCodeNotFound
		}
	}
	return appErr
}
