package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Configuration errors
	ErrConfigLoad ErrorCode = "CONFIG_LOAD"

	// Theme and stylesheet construction errors
	ErrAliasMissing     ErrorCode = "ALIAS_MISSING"
	ErrAliasCycle       ErrorCode = "ALIAS_CYCLE"
	ErrInvalidColor     ErrorCode = "INVALID_COLOR"
	ErrUnknownAttribute ErrorCode = "UNKNOWN_ATTRIBUTE"
	ErrStylesheetParse  ErrorCode = "STYLESHEET_PARSE"
	ErrThemeNotFound    ErrorCode = "THEME_NOT_FOUND"

	// Registry construction errors
	ErrNameCollision ErrorCode = "NAME_COLLISION"
	ErrWalk          ErrorCode = "WALK"

	// Template errors
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateSyntax   ErrorCode = "TEMPLATE_SYNTAX"
	ErrTemplateExec     ErrorCode = "TEMPLATE_EXEC"
	ErrSerialize        ErrorCode = "SERIALIZE"

	// Render-soft errors
	ErrUnknownStyle ErrorCode = "UNKNOWN_STYLE"

	// I/O errors
	ErrIO ErrorCode = "IO"
)

// Kind groups error codes by when they surface and how fatal they are.
type Kind int

const (
	// KindOther covers codes outside the rendering taxonomy.
	KindOther Kind = iota
	// KindConstruction errors abort startup: bad themes, stylesheets or registries.
	KindConstruction
	// KindTemplate errors fail a render.
	KindTemplate
	// KindRenderSoft errors are collected per render and are non-fatal by default.
	KindRenderSoft
	// KindIO errors come from reading resources or writing to the sink.
	KindIO
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindConstruction:
		return "construction"
	case KindTemplate:
		return "template"
	case KindRenderSoft:
		return "render-soft"
	case KindIO:
		return "io"
	default:
		return "other"
	}
}

// KindOf returns the kind of an error code.
func KindOf(code ErrorCode) Kind {
	switch code {
	case ErrAliasMissing, ErrAliasCycle, ErrInvalidColor, ErrUnknownAttribute,
		ErrStylesheetParse, ErrThemeNotFound, ErrNameCollision, ErrWalk, ErrConfigLoad:
		return KindConstruction
	case ErrTemplateNotFound, ErrTemplateSyntax, ErrTemplateExec, ErrSerialize:
		return KindTemplate
	case ErrUnknownStyle:
		return KindRenderSoft
	case ErrIO:
		return KindIO
	default:
		return KindOther
	}
}

// OutfitError represents a structured error with code and details
type OutfitError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *OutfitError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *OutfitError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *OutfitError) Is(target error) bool {
	var targetErr *OutfitError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// Kind returns the error's kind.
func (e *OutfitError) Kind() Kind {
	return KindOf(e.Code)
}

// New creates a new OutfitError with the given code and message
func New(code ErrorCode, message string) *OutfitError {
	return &OutfitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new OutfitError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *OutfitError {
	return &OutfitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an OutfitError
func Wrap(err error, code ErrorCode, message string) *OutfitError {
	if err == nil {
		return nil
	}
	return &OutfitError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *OutfitError {
	if err == nil {
		return nil
	}
	return &OutfitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *OutfitError) WithDetail(key string, value interface{}) *OutfitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *OutfitError) WithDetails(details map[string]interface{}) *OutfitError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var outfitErr *OutfitError
	if errors.As(err, &outfitErr) {
		return outfitErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an OutfitError
func GetErrorCode(err error) ErrorCode {
	var outfitErr *OutfitError
	if errors.As(err, &outfitErr) {
		return outfitErr.Code
	}
	return ErrUnknown
}

// GetErrorKind returns the kind of an error, or KindOther if not an OutfitError
func GetErrorKind(err error) Kind {
	return KindOf(GetErrorCode(err))
}

// GetErrorDetails returns the details from an error, or nil if not an OutfitError
func GetErrorDetails(err error) map[string]interface{} {
	var outfitErr *OutfitError
	if errors.As(err, &outfitErr) {
		return outfitErr.Details
	}
	return nil
}
