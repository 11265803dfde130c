package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeFetchFailed  = "FETCH_FAILED"
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeUpstream     = "UPSTREAM_FAILED"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBridge       = "BRIDGE_ERROR"
	ErrCodeBrowserCrash = "BROWSER_CRASH"

	// LLM-related error codes for the ai-recipes service.
	ErrCodeLLMNotConfigured = "LLM_NOT_CONFIGURED"
	ErrCodeLLMFailure       = "LLM_FAILURE"
	ErrCodeLLMAuthFailure   = "LLM_AUTH_FAILURE"
	ErrCodeLLMRateLimited   = "LLM_RATE_LIMITED"
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// APIError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type APIError struct {
	Code    string
	Message string
	Detail  any   // optional structured detail surfaced to the client
	Err     error // wrapped original error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError creates a new APIError.
func NewAPIError(code, message string, err error) *APIError {
	return &APIError{Code: code, Message: message, Err: err}
}

// WithDetail attaches structured detail and returns the same error.
func (e *APIError) WithDetail(detail any) *APIError {
	e.Detail = detail
	return e
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *APIError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, Detail: e.Detail}
}

// InvalidInput is shorthand for a 400-class validation error.
func InvalidInput(message string) *APIError {
	return NewAPIError(ErrCodeInvalidInput, message, nil)
}

// FetchError reports that the recipe page could not be retrieved: either the
// transport failed or the server answered with a non-2xx status. It is the
// only fatal failure of a scrape.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the request never got a response
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
