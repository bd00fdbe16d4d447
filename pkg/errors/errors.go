package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"strings"
)

// Error codes
const (
	CodeDealError   = "DEAL_ERROR"
	CodeFetch       = "FETCH_ERROR"
	CodeBrowser     = "BROWSER_UNAVAILABLE"
	CodeRobots      = "ROBOTS_BLOCKED"
	CodeBackend     = "BACKEND_ERROR"
	CodeCache       = "CACHE_ERROR"
	CodeCatalog     = "CATALOG_ERROR"
	CodeUnavailable = "BACKEND_UNAVAILABLE"
)

type DealError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *DealError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DealError) Unwrap() error {
	return e.Cause
}

// HTTPStatus reports the HTTP-like status carried by the error, 0 when none.
func (e *DealError) HTTPStatus() int {
	return e.StatusCode
}

func NewDealError(message, code string, statusCode int, context map[string]any) *DealError {
	return &DealError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *DealError) WithCause(cause error) *DealError {
	e.Cause = cause
	return e
}

type FetchError struct {
	*DealError
	URL string
}

func NewFetchError(message, url string, statusCode int, cause error) *FetchError {
	return &FetchError{
		DealError: &DealError{
			Message:    message,
			Code:       CodeFetch,
			StatusCode: statusCode,
			Context:    map[string]any{"url": url},
			Cause:      cause,
		},
		URL: url,
	}
}

// NewBrowserError marks a failure to launch or connect to the headless browser.
func NewBrowserError(message string, cause error) *FetchError {
	e := NewFetchError(message, "", 0, cause)
	e.Code = CodeBrowser
	return e
}

// NewRobotsError carries 403 so the retry executor treats it as terminal.
func NewRobotsError(url string) *FetchError {
	e := NewFetchError("blocked by robots.txt", url, 403, nil)
	e.Code = CodeRobots
	return e
}

type BackendError struct {
	*DealError
	Backend   string
	Operation string
}

func NewBackendError(message, backend, operation string, cause error) *BackendError {
	return &BackendError{
		DealError: &DealError{
			Message:    message,
			Code:       CodeBackend,
			StatusCode: 0,
			Context: map[string]any{
				"backend":   backend,
				"operation": operation,
			},
			Cause: cause,
		},
		Backend:   backend,
		Operation: operation,
	}
}

type CacheError struct {
	*DealError
	Operation string
	Key       string
}

func NewCacheError(message, operation, key string, cause error) *CacheError {
	return &CacheError{
		DealError: &DealError{
			Message:    message,
			Code:       CodeCache,
			StatusCode: 0,
			Context: map[string]any{
				"operation": operation,
				"key":       key,
			},
			Cause: cause,
		},
		Operation: operation,
		Key:       key,
	}
}

type CatalogError struct {
	*DealError
	Path string
}

func NewCatalogError(message, path string, cause error) *CatalogError {
	return &CatalogError{
		DealError: &DealError{
			Message: message,
			Code:    CodeCatalog,
			Context: map[string]any{"path": path},
			Cause:   cause,
		},
		Path: path,
	}
}

type statusCoder interface {
	HTTPStatus() int
}

// StatusCode returns the first non-zero HTTP-like status found in err's chain.
func StatusCode(err error) int {
	for err != nil {
		if sc, ok := err.(statusCoder); ok {
			if code := sc.HTTPStatus(); code != 0 {
				return code
			}
		}
		err = stderrors.Unwrap(err)
	}
	return 0
}

// IsClientError reports whether err carries a 4xx status.
func IsClientError(err error) bool {
	code := StatusCode(err)
	return code >= 400 && code < 500
}

// ErrorCode returns the error's code.
func (e *DealError) ErrorCode() string {
	return e.Code
}

type codeCarrier interface {
	ErrorCode() string
}

// HasCode reports whether any error in err's chain carries the given code.
func HasCode(err error, code string) bool {
	for err != nil {
		if c, ok := err.(codeCarrier); ok && c.ErrorCode() == code {
			return true
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// knownBlockPatterns are error message fragments that mean a site blocked
// or dropped the automated session rather than a defect in the scraper.
var knownBlockPatterns = []string{
	"ERR_HTTP2_PROTOCOL_ERROR",
	"net::ERR_",
	"Timeout",
	"Navigation failed",
	"connection reset",
	"blocked by robots.txt",
}

// IsKnownBlock reports whether err looks like bot defense or a dropped
// connection: a deadline, a network timeout, or one of the known messages.
func IsKnownBlock(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) || HasCode(err, CodeRobots) {
		return true
	}
	var nerr net.Error
	if stderrors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	msg := err.Error()
	for _, p := range knownBlockPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
