package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-search/internal/access"
	generateanswer "knowledge-search/internal/adapters/ai/generate-answer"
	submitfeedback "knowledge-search/internal/adapters/ai/submit-feedback"
	fetchsuggestions "knowledge-search/internal/adapters/knowledge/fetch-suggestions"
	searchknowledge "knowledge-search/internal/adapters/knowledge/search-knowledge"
	checkpermissions "knowledge-search/internal/adapters/rbac/check-permissions"
	"knowledge-search/internal/catalog"
	apperrors "knowledge-search/internal/common/errors"
	httpclient "knowledge-search/internal/common/http"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/resilience"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/history"
	"knowledge-search/internal/models"
	"knowledge-search/internal/service"
	"knowledge-search/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

func startServer(t *testing.T, answerSim *simulate.Simulator) *Client {
	t.Helper()
	log := logger.NewTestLogger(t)
	store := catalog.NewDefaultStore(time.Now())
	sim := simulate.Instant()
	svc := service.New(service.Handlers{
		Search:      searchknowledge.NewHandler(searchknowledge.LoadConfig(), store, nil, sim, log),
		Suggestions: fetchsuggestions.NewHandler(fetchsuggestions.LoadConfig(), store, sim, log),
		Answer:      generateanswer.NewHandler(generateanswer.LoadConfig(), nil, answerSim, log),
		Permissions: checkpermissions.NewHandler(checkpermissions.LoadConfig(), sim, log),
		Feedback:    submitfeedback.NewHandler(submitfeedback.LoadConfig(), sim, nil, log),
	}, store, history.NewMemoryStore(history.DefaultLimit, 0), nil, log)

	v, err := validation.NewSchemaValidator()
	require.NoError(t, err)
	srv := httptest.NewServer(NewServer(Deps{
		Service:           svc,
		Sessions:          access.NewDirectory(),
		Validator:         v,
		DefaultUserID:     "user-001",
		DefaultCustomerID: "cust-001",
		Logger:            log,
	}).Router())
	t.Cleanup(srv.Close)

	retry := resilience.RetryConfig{
		MaxRetries:        1,
		InitialDelay:      time.Millisecond,
		MaxDelay:          2 * time.Millisecond,
		BackoffMultiplier: 2,
		RetryableErrors:   []apperrors.ErrorType{apperrors.ErrTypeNetwork, apperrors.ErrTypeServer},
	}
	return NewClient(httpclient.NewClient(srv.URL, 5*time.Second, retry, log), log)
}

func clientSession(t *testing.T, userID string) models.Session {
	t.Helper()
	s, err := access.NewDirectory().Session(userID, "cust-002")
	require.NoError(t, err)
	return s
}

// ==========================
// Round Trip Tests
// ==========================

func TestClient_SearchAndAnswer(t *testing.T) {
	c := startServer(t, simulate.Instant())
	ctx := context.Background()
	session := clientSession(t, "user-001")

	resp, err := c.Search(ctx, session, models.SearchRequest{
		Query:   "how do i reset my account password?",
		Filters: models.DefaultFilters(),
		SortBy:  models.SortRelevance,
	})
	require.NoError(t, err)
	articles := resp.Articles()
	assert.Equal(t, []string{"2001", "1001"}, models.ArticleIDs(articles))

	fuzzy, err := c.Search(ctx, session, models.SearchRequest{
		Query:   "password",
		Filters: models.DefaultFilters(),
		SortBy:  models.SortRelevance,
	})
	require.NoError(t, err)
	fuzzyIDs := models.ArticleIDs(fuzzy.Articles())
	assert.Subset(t, fuzzyIDs, []string{"2001", "1001", "2005"})

	answer, err := c.Answer(ctx, session, "how do i reset my account password?", articles)
	require.NoError(t, err)
	assert.Equal(t, 92, answer.Confidence)
	assert.NotEmpty(t, answer.ID)

	receipt := c.SubmitFeedback(ctx, session, answer.ID, models.Feedback{Type: models.FeedbackHelpful})
	assert.True(t, receipt.Success)
	assert.Equal(t, answer.ID, receipt.ResponseID)
}

func TestClient_SearchHonoursUserPermissions(t *testing.T) {
	c := startServer(t, simulate.Instant())
	ctx := context.Background()
	req := models.SearchRequest{Query: registry.SecurityQuery, Filters: models.DefaultFilters(), SortBy: models.SortRelevance}

	agent, err := c.Search(ctx, clientSession(t, "user-001"), req)
	require.NoError(t, err)
	for _, a := range agent.Articles() {
		assert.NotEqual(t, models.CategorySecurity, a.Category)
	}

	admin, err := c.Search(ctx, clientSession(t, "user-004"), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"1004", "2003", "2007", "2008", "2005"}, models.ArticleIDs(admin.Articles()))
	assert.Equal(t, registry.SecurityOrderingKey, admin.OrderingKey)
	assert.Equal(t, []string{"1004", "2003", "2007", "2008", "2005"}, admin.OrderingPriority)
}

func TestClient_AIUnavailable(t *testing.T) {
	// first draw passes the network check, second trips the unavailable check
	c := startServer(t, simulate.New(simulate.Sequence(0.5, 0.01), 0))

	_, err := c.AnswerForIDs(context.Background(), clientSession(t, "user-001"), "password", []string{"1001"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAIUnavailable(err))
	assert.Equal(t, apperrors.MsgAIUnavailable, apperrors.UserMessage(err))
}

func TestClient_ValidationError(t *testing.T) {
	c := startServer(t, simulate.Instant())
	future := time.Now().AddDate(1, 0, 0)

	_, err := c.Search(context.Background(), clientSession(t, "user-001"), models.SearchRequest{
		Query:   "password",
		Filters: models.SearchFilters{StartDate: &future},
	})
	var ve *apperrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "startDate", ve.Field)
}

func TestClient_PermissionsAndHistory(t *testing.T) {
	c := startServer(t, simulate.Instant())
	ctx := context.Background()

	check, err := c.Permissions(ctx, clientSession(t, "user-004"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, check.AccessLevel)
	assert.Equal(t, 4, check.Level)

	_, err = c.AddHistory(ctx, "user-002", "wire transfer")
	require.NoError(t, err)
	entries, err := c.AddHistory(ctx, "user-002", "password")
	require.NoError(t, err)
	assert.Equal(t, []string{"password", "wire transfer"}, entries)

	listed, err := c.History(ctx, "user-002")
	require.NoError(t, err)
	assert.Equal(t, entries, listed)

	require.NoError(t, c.ClearHistory(ctx, "user-002"))
	listed, err = c.History(ctx, "user-002")
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestClient_Suggestions(t *testing.T) {
	c := startServer(t, simulate.Instant())

	out, err := c.Suggestions(context.Background(), clientSession(t, "user-001"), "password")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
