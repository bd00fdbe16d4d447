package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o wait exceeded" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestStatusCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("scrape: %w", NewFetchError("HTTP 404", "https://a.test", 404, nil))
	if StatusCode(err) != 404 || !IsClientError(err) {
		t.Errorf("StatusCode = %d", StatusCode(err))
	}
	if StatusCode(stderrors.New("plain")) != 0 || IsClientError(nil) {
		t.Error("plain errors carry no status")
	}
	if IsClientError(NewFetchError("HTTP 503", "", 503, nil)) {
		t.Error("5xx is not a client error")
	}
	if !IsClientError(NewRobotsError("https://a.test/x")) {
		t.Error("robots block should not be retried")
	}
}

func TestHasCode(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("ranch99: %w", NewBrowserError("launch browser", stderrors.New("exec: not found")))
	if !HasCode(err, CodeBrowser) || HasCode(err, CodeRobots) {
		t.Errorf("codes wrong for %v", err)
	}
}

func TestIsKnownBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.DeadlineExceeded, true},
		{fmt.Errorf("fetch: %w", timeoutErr{}), true},
		{NewRobotsError("https://a.test"), true},
		{stderrors.New("net::ERR_CONNECTION_CLOSED at https://a.test"), true},
		{stderrors.New("page.goto: ERR_HTTP2_PROTOCOL_ERROR"), true},
		{stderrors.New("read tcp: connection reset by peer"), true},
		{NewFetchError("Navigation failed", "https://a.test", 0, nil), true},
		{stderrors.New("Timeout 30000ms exceeded"), true},
		{stderrors.New("selector syntax error"), false},
		{NewFetchError("HTTP 500", "https://a.test", 500, nil), false},
	}
	for _, tt := range tests {
		if got := IsKnownBlock(tt.err); got != tt.want {
			t.Errorf("IsKnownBlock(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDealErrorMessage(t *testing.T) {
	t.Parallel()

	base := NewDealError("catalog unreadable", CodeCatalog, 0, nil).WithCause(stderrors.New("EOF"))
	if base.Error() != "catalog unreadable: EOF" {
		t.Errorf("Error() = %q", base.Error())
	}
	if !stderrors.Is(base, base.Cause) {
		t.Error("Unwrap should expose the cause")
	}
}
