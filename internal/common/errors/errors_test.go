package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Classification Tests
// ==========================

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
		status    int
	}{
		{"timeout message", stderrors.New("Request Timeout exceeded"), ErrTypeTimeout, true, 0},
		{"deadline exceeded", context.DeadlineExceeded, ErrTypeTimeout, true, 0},
		{"wrapped deadline", fmt.Errorf("calling search: %w", context.DeadlineExceeded), ErrTypeTimeout, true, 0},
		{"cancelled context", context.Canceled, ErrTypeAbort, false, 0},
		{"abort message", stderrors.New("operation aborted by user"), ErrTypeAbort, false, 0},
		{"network message", stderrors.New("Network unreachable"), ErrTypeNetwork, true, 0},
		{"fetch message", stderrors.New("failed to fetch"), ErrTypeNetwork, true, 0},
		{"connection message", stderrors.New("connection reset by peer"), ErrTypeNetwork, true, 0},
		{"net op error", &net.OpError{Op: "dial", Net: "tcp", Err: stderrors.New("refused")}, ErrTypeNetwork, true, 0},
		{"server 502", stderrors.New("upstream returned 502"), ErrTypeServer, true, 500},
		{"server 503", stderrors.New("HTTP 503"), ErrTypeServer, true, 500},
		{"unknown", stderrors.New("something odd"), ErrTypeUnknown, false, 0},
		{"ai unavailable", ErrAIServiceUnavailable, ErrTypeUnknown, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ne := Classify(tt.err)
			require.NotNil(t, ne)
			assert.Equal(t, tt.wantType, ne.Type)
			assert.Equal(t, tt.retryable, ne.Retryable)
			assert.Equal(t, tt.status, ne.StatusCode)
		})
	}
}

func TestClassify_RuleOrder(t *testing.T) {
	// timeout wins over network and server markers
	ne := Classify(stderrors.New("network timeout after 503"))
	assert.Equal(t, ErrTypeTimeout, ne.Type)

	// abort wins over network
	ne = Classify(stderrors.New("fetch aborted"))
	assert.Equal(t, ErrTypeAbort, ne.Type)
}

func TestClassify_Deterministic(t *testing.T) {
	err := stderrors.New("connection refused")
	a, b := Classify(err), Classify(err)
	assert.Equal(t, a.Type, b.Type)
	assert.Equal(t, a.Retryable, b.Retryable)
	assert.Equal(t, a.Message, b.Message)
}

func TestClassify_PassesThroughNetworkError(t *testing.T) {
	orig := NewServerError("bad gateway", 502)
	wrapped := fmt.Errorf("search: %w", orig)
	assert.Same(t, orig, Classify(wrapped))
	assert.Nil(t, Classify(nil))
}

func TestClassify_KeepsCause(t *testing.T) {
	ne := Classify(ErrAIServiceUnavailable)
	assert.True(t, stderrors.Is(ne, ErrAIServiceUnavailable))
	assert.True(t, IsAIUnavailable(ne))
}

func TestRetryableByType(t *testing.T) {
	retryable := []*NetworkError{NewTimeoutError("t"), NewNetworkError("n"), NewServerError("s", 500)}
	for _, e := range retryable {
		assert.True(t, e.Retryable, e.Type)
	}
	notRetryable := []*NetworkError{NewAbortError("a"), NewUnknownError("u")}
	for _, e := range notRetryable {
		assert.False(t, e.Retryable, e.Type)
	}
}

func TestNewStatusError(t *testing.T) {
	tests := []struct {
		status    int
		wantType  ErrorType
		retryable bool
	}{
		{500, ErrTypeServer, true},
		{503, ErrTypeServer, true},
		{408, ErrTypeTimeout, true},
		{504, ErrTypeServer, true},
		{404, ErrTypeUnknown, false},
		{400, ErrTypeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			ne := NewStatusError(tt.status, http.StatusText(tt.status))
			assert.Equal(t, tt.wantType, ne.Type)
			assert.Equal(t, tt.retryable, ne.Retryable)
			assert.Equal(t, tt.status, ne.StatusCode)
		})
	}
}

func TestFromContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, ErrTypeAbort, FromContext(ctx, "x").Type)

	ctx, cancel = context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()
	assert.Equal(t, ErrTypeTimeout, FromContext(ctx, "x").Type)
}

// ==========================
// User Message Tests
// ==========================

func TestUserMessage(t *testing.T) {
	assert.Equal(t, MsgTimeout, UserMessage(NewTimeoutError("x")))
	assert.Equal(t, MsgNetwork, UserMessage(NewNetworkError("x")))
	assert.Equal(t, MsgAbort, UserMessage(NewAbortError("x")))
	assert.Equal(t, MsgServer, UserMessage(NewServerError("x", 500)))
	assert.Equal(t, MsgDefault, UserMessage(NewUnknownError("x")))
	assert.Equal(t, MsgDefault, UserMessage(stderrors.New("odd")))
	assert.Equal(t, MsgAIUnavailable, UserMessage(ErrAIServiceUnavailable))
	assert.Equal(t, "query too long", UserMessage(NewValidationError("query", "query too long")))
	assert.Empty(t, UserMessage(nil))
}

func TestParseErrorType(t *testing.T) {
	got, err := ParseErrorType(" network_error ")
	require.NoError(t, err)
	assert.Equal(t, ErrTypeNetwork, got)

	_, err = ParseErrorType("BOGUS")
	assert.Error(t, err)
}

// ==========================
// HTTP Handler Tests
// ==========================

type recordingLogger struct {
	warns, errors int
}

func (l *recordingLogger) Warn(string, map[string]interface{})  { l.warns++ }
func (l *recordingLogger) Error(string, map[string]interface{}) { l.errors++ }

func TestErrorHandler_Handle(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantWarn   bool
	}{
		{"abort", NewAbortError("Request aborted"), StatusClientClosedRequest, "ABORT", true},
		{"timeout", NewTimeoutError("slow"), http.StatusGatewayTimeout, "TIMEOUT", false},
		{"network", NewNetworkError("down"), http.StatusBadGateway, "NETWORK_ERROR", false},
		{"server", NewServerError("boom", 500), http.StatusBadGateway, "SERVER_ERROR", false},
		{"unknown", stderrors.New("odd"), http.StatusInternalServerError, "UNKNOWN", false},
		{"ai unavailable", Classify(ErrAIServiceUnavailable), http.StatusServiceUnavailable, "AI_SERVICE_UNAVAILABLE", false},
		{"validation", NewValidationError("query", "query is required"), http.StatusBadRequest, "VALIDATION_ERROR", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := &recordingLogger{}
			rec := httptest.NewRecorder()
			NewErrorHandler(log).Handle(rec, "search-knowledge", tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantType, body.Error.Type)
			assert.NotEmpty(t, body.Error.Message)
			if tt.wantWarn {
				assert.Equal(t, 1, log.warns)
				assert.Zero(t, log.errors)
			} else {
				assert.Equal(t, 1, log.errors)
			}
		})
	}
}
