package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"knowledge-search/internal/access"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/models"
)

// ==========================
// Mock Service Implementation
// ==========================

type MockService struct {
	mock.Mock
}

func (m *MockService) Search(ctx context.Context, session models.Session, req models.SearchRequest) (*models.SearchResponse, error) {
	args := m.Called(ctx, session, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchResponse), args.Error(1)
}

func (m *MockService) Suggestions(ctx context.Context, session models.Session, query string) ([]models.Article, error) {
	args := m.Called(ctx, session, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Article), args.Error(1)
}

func (m *MockService) AnswerForIDs(ctx context.Context, session models.Session, query string, ids []string) (*models.AIResponse, error) {
	args := m.Called(ctx, session, query, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AIResponse), args.Error(1)
}

func (m *MockService) Permissions(ctx context.Context, session models.Session) (*models.PermissionCheck, error) {
	args := m.Called(ctx, session)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PermissionCheck), args.Error(1)
}

func (m *MockService) SubmitFeedback(ctx context.Context, session models.Session, responseID string, feedback models.Feedback) models.FeedbackReceipt {
	args := m.Called(ctx, session, responseID, feedback)
	return args.Get(0).(models.FeedbackReceipt)
}

func (m *MockService) History(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockService) AddHistory(ctx context.Context, userID, query string) ([]string, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockService) ClearHistory(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type staticFeedback []models.FeedbackEvent

func (s staticFeedback) Recent() []models.FeedbackEvent { return s }

// ==========================
// Test Helper Functions
// ==========================

func createTestServer(t *testing.T, svc KnowledgeService) http.Handler {
	t.Helper()
	v, err := validation.NewSchemaValidator()
	require.NoError(t, err)
	return NewServer(Deps{
		Service:           svc,
		Sessions:          access.NewDirectory(),
		Feedback:          staticFeedback{{FeedbackID: "fb-1", Type: models.FeedbackHelpful}},
		Validator:         v,
		MetricsHandler:    http.NotFoundHandler(),
		DefaultUserID:     "user-001",
		DefaultCustomerID: "cust-001",
		Version:           "test",
		Logger:            logger.NewTestLogger(t),
	}).Router()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorDetail {
	t.Helper()
	var body apperrors.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func sessionMatching(userID, customerID string) interface{} {
	return mock.MatchedBy(func(s models.Session) bool {
		return s.User.ID == userID && s.Customer.ID == customerID
	})
}

// ==========================
// Route Tests
// ==========================

func TestServer_Health(t *testing.T) {
	h := createTestServer(t, new(MockService))
	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.JSONEq(t, `{"status":"ok","version":"test"}`, rec.Body.String())
}

func TestServer_Search(t *testing.T) {
	svc := new(MockService)
	svc.On("Search", mock.Anything, sessionMatching("user-003", "cust-002"), mock.MatchedBy(func(r models.SearchRequest) bool {
		return r.Query == "security policies" &&
			r.Filters.Category == models.CategorySecurity &&
			r.Filters.DateRange == models.DateRangeAll &&
			r.Filters.StartDate != nil && r.Filters.StartDate.Format(validation.DateLayout) == "2024-01-01" &&
			r.SortBy == models.SortPopularity
	})).Return(&models.SearchResponse{
		Results:     []models.SearchResult{{Article: models.Article{ID: "2003"}}},
		OrderingKey: "security-priority",
	}, nil)

	h := createTestServer(t, svc)
	rec := doRequest(t, h, http.MethodPost, "/api/knowledge/search",
		`{"query":"<b>security policies</b>","filters":{"category":"Security","startDate":"2024-01-01","endDate":null},"sortBy":"popularity"}`,
		map[string]string{HeaderUserID: "user-003", HeaderCustomerID: "cust-002"})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out models.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"2003"}, models.ArticleIDs(out.Articles()))
	assert.Equal(t, "security-priority", out.OrderingKey)
	svc.AssertExpectations(t)
}

func TestServer_Search_ValidationErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"malformed json", `{"query":`, "(root)"},
		{"missing query", `{"filters":{}}`, "(root)"},
		{"bad sort", `{"query":"x","sortBy":"random"}`, "sortBy"},
		{"bad category", `{"query":"x","filters":{"category":"Gossip"}}`, "category"},
		{"future date", `{"query":"x","filters":{"startDate":"2999-01-01"}}`, "startDate"},
		{"bad date", `{"query":"x","filters":{"endDate":"01/02/2024"}}`, "endDate"},
		{"markup only", `{"query":"<b></b>"}`, "query"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			h := createTestServer(t, svc)

			rec := doRequest(t, h, http.MethodPost, "/api/knowledge/search", tt.body, nil)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, "VALIDATION_ERROR", detail.Type)
			assert.Equal(t, tt.wantField, detail.Field)
			svc.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestServer_Search_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantMsg    string
	}{
		{"network", apperrors.NewNetworkError("Simulated network error"), http.StatusBadGateway, "NETWORK_ERROR", apperrors.MsgNetwork},
		{"timeout", apperrors.NewTimeoutError("Request timed out after 10000ms"), http.StatusGatewayTimeout, "TIMEOUT", apperrors.MsgTimeout},
		{"abort", apperrors.NewAbortError("Request aborted"), apperrors.StatusClientClosedRequest, "ABORT", apperrors.MsgAbort},
		{"unknown", apperrors.NewUnknownError("boom"), http.StatusInternalServerError, "UNKNOWN", apperrors.MsgDefault},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Search", mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			h := createTestServer(t, svc)

			rec := doRequest(t, h, http.MethodPost, "/api/knowledge/search", `{"query":"password"}`, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			detail := decodeError(t, rec)
			assert.Equal(t, tt.wantType, detail.Type)
			assert.Equal(t, tt.wantMsg, detail.Message)
		})
	}
}

func TestServer_UnknownUser(t *testing.T) {
	h := createTestServer(t, new(MockService))
	rec := doRequest(t, h, http.MethodGet, "/api/permissions/me", "", map[string]string{HeaderUserID: "user-999"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "session", decodeError(t, rec).Field)
}

func TestServer_Suggestions(t *testing.T) {
	svc := new(MockService)
	svc.On("Suggestions", mock.Anything, sessionMatching("user-001", "cust-001"), "pass").
		Return([]models.Article{{ID: "1001", Title: "How to Reset Your Password"}}, nil)
	h := createTestServer(t, svc)

	rec := doRequest(t, h, http.MethodGet, "/api/knowledge/suggestions?q=pass", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out SuggestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, []string{"1001"}, models.ArticleIDs(out.Suggestions))
	svc.AssertExpectations(t)
}

func TestServer_Answer(t *testing.T) {
	svc := new(MockService)
	svc.On("AnswerForIDs", mock.Anything, mock.Anything, "password", []string{"2001", "1001"}).
		Return(&models.AIResponse{ID: "resp-1", Confidence: 92, IsConfident: true}, nil)
	h := createTestServer(t, svc)

	rec := doRequest(t, h, http.MethodPost, "/api/ai/answer", `{"query":"password","articleIds":["2001","1001"]}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out models.AIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "resp-1", out.ID)
	svc.AssertExpectations(t)
}

func TestServer_Answer_Unavailable(t *testing.T) {
	svc := new(MockService)
	svc.On("AnswerForIDs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrAIServiceUnavailable)
	h := createTestServer(t, svc)

	rec := doRequest(t, h, http.MethodPost, "/api/ai/answer", `{"query":"password"}`, nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	detail := decodeError(t, rec)
	assert.True(t, detail.AIUnavailable)
	assert.Equal(t, apperrors.MsgAIUnavailable, detail.Message)
}

func TestServer_Feedback(t *testing.T) {
	svc := new(MockService)
	svc.On("SubmitFeedback", mock.Anything, mock.Anything, "resp-1", models.Feedback{Type: models.FeedbackNotHelpful, Reason: "outdated"}).
		Return(models.FeedbackReceipt{Success: false, ResponseID: "resp-1"})
	h := createTestServer(t, svc)

	rec := doRequest(t, h, http.MethodPost, "/api/ai/feedback",
		`{"responseId":"resp-1","feedback":{"type":"not_helpful","reason":"  outdated "}}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out models.FeedbackReceipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.False(t, out.Success)
	svc.AssertExpectations(t)

	rec = doRequest(t, h, http.MethodPost, "/api/ai/feedback", `{"responseId":"resp-1","feedback":{"type":"loved_it"}}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RecentFeedback(t *testing.T) {
	h := createTestServer(t, new(MockService))
	rec := doRequest(t, h, http.MethodGet, "/api/ai/feedback", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var out FeedbackListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out.Events, 1)
	assert.Equal(t, "fb-1", out.Events[0].FeedbackID)
}

func TestServer_History(t *testing.T) {
	svc := new(MockService)
	svc.On("History", mock.Anything, "user-002").Return(nil, nil).Once()
	svc.On("AddHistory", mock.Anything, "user-002", "invoice").Return([]string{"invoice"}, nil)
	svc.On("ClearHistory", mock.Anything, "user-002").Return(nil)
	h := createTestServer(t, svc)
	headers := map[string]string{HeaderUserID: "user-002"}

	rec := doRequest(t, h, http.MethodGet, "/api/history", "", headers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"user-002","entries":[]}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodPost, "/api/history", `{"query":"invoice"}`, headers)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"user-002","entries":["invoice"]}`, rec.Body.String())

	rec = doRequest(t, h, http.MethodDelete, "/api/history", "", headers)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestServer_MethodNotAllowed(t *testing.T) {
	h := createTestServer(t, new(MockService))
	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/knowledge/search"},
		{http.MethodPut, "/api/history"},
		{http.MethodPost, "/api/permissions/me"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := doRequest(t, h, tt.method, tt.path, "", nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, rec).Type)
		})
	}

	rec := doRequest(t, h, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
