// internal/adapters/ai/generate-answer/handler_test.go
package generateanswer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledge-search/internal/access"
	"knowledge-search/internal/catalog"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
	"knowledge-search/pkg/registry"
)

// ==========================
// Test Helper Functions
// ==========================

var testNow = time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)

func createTestHandler(t *testing.T, cfg *Config, sim *simulate.Simulator) *Handler {
	t.Helper()
	if cfg == nil {
		cfg = LoadConfig()
	}
	return NewHandler(cfg, registry.Default(), sim, logger.NewTestLogger(t))
}

func sessionFor(t *testing.T, userID, customerID string) models.Session {
	t.Helper()
	s, err := access.NewDirectory().Session(userID, customerID)
	require.NoError(t, err)
	return s
}

func articles(t *testing.T, ids ...string) []models.Article {
	t.Helper()
	found := catalog.Lookup(catalog.NewDefaultStore(testNow), ids)
	require.Len(t, found, len(ids))
	return found
}

func citationIDs(out *Output) []string {
	ids := make([]string, len(out.Citations))
	for i, c := range out.Citations {
		ids[i] = c.ID
	}
	return ids
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ScriptedPassword(t *testing.T) {
	h := createTestHandler(t, nil, simulate.Instant())
	input := &Input{
		Query:    "How do I reset my account password?",
		Articles: articles(t, "2001", "1001"),
		Session:  sessionFor(t, "user-001", "cust-001"),
	}

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, 92, out.Confidence)
	assert.True(t, out.IsConfident)
	assert.Contains(t, out.Answer, "relationship manager")
	assert.Equal(t, []string{"2001", "1001"}, citationIDs(out))
	assert.True(t, strings.HasPrefix(out.ID, "resp-"))
	assert.Equal(t, "how do i reset my account password?", out.QueryContext.NormalizedQuery)
	assert.Equal(t, input.Query, out.QueryContext.OriginalQuery)
	assert.Equal(t, models.RoleSupportAgent, out.QueryContext.PermissionLevel)
	assert.Equal(t, []string{"ssn", "creditCard"}, out.QueryContext.RedactedFields)
	assert.Equal(t, models.Guardrails{PassedSafetyCheck: true, PolicyCompliant: true, SourceVerified: true}, out.Guardrails)
}

func TestHandler_Execute_MarketQueryNotConfident(t *testing.T) {
	h := createTestHandler(t, nil, simulate.Instant())
	input := &Input{
		Query:    "what is the current stock price of apple?",
		Articles: articles(t, "2006"),
		Session:  sessionFor(t, "user-001", ""),
	}

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, 60, out.Confidence)
	assert.False(t, out.IsConfident)
	assert.Contains(t, out.Answer, "Live market data")
}

func TestHandler_Execute_UnscriptedConfidenceRange(t *testing.T) {
	for _, draw := range []float64{0, 0.5, 0.999} {
		h := createTestHandler(t, nil, simulate.New(simulate.Fixed(draw), 0))
		// Fixed(0) would trip failure injection, so disable it here.
		h.config.NetworkFailureRate = 0
		h.config.UnavailableRate = 0

		out, err := h.Execute(context.Background(), &Input{Query: "printer jam", Session: sessionFor(t, "", "")})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, out.Confidence, 85)
		assert.Less(t, out.Confidence, 95)
		assert.Equal(t, Render(IntentDefault, models.Customer{}), out.Answer)
	}
}

func TestHandler_Execute_ConfidenceThreshold(t *testing.T) {
	tests := []struct {
		base      int
		confident bool
	}{
		{79, false},
		{80, true},
	}
	for _, tt := range tests {
		cfg := LoadConfig()
		cfg.BaseConfidence = tt.base
		cfg.ConfidenceSpread = 1
		h := createTestHandler(t, cfg, simulate.Instant())

		out, err := h.Execute(context.Background(), &Input{Query: "printer jam", Session: sessionFor(t, "", "")})
		require.NoError(t, err)
		assert.Equal(t, tt.base, out.Confidence)
		assert.Equal(t, tt.confident, out.IsConfident)
	}
}

func TestHandler_Execute_CitationsSubsetOfVisible(t *testing.T) {
	h := createTestHandler(t, nil, simulate.Instant())
	visible := articles(t, "2013", "2014", "2015", "2001", "1001")

	out, err := h.Execute(context.Background(), &Input{
		Query:    "how do i update my payment method?",
		Articles: visible,
		Session:  sessionFor(t, "", ""),
	})
	require.NoError(t, err)

	require.Len(t, out.Citations, 3)
	visibleIDs := models.ArticleIDs(visible)
	for _, c := range out.Citations {
		assert.Contains(t, visibleIDs, c.ID)
		assert.True(t, strings.HasSuffix(c.Content, "..."))
		assert.LessOrEqual(t, len([]rune(c.Content)), 153)
	}

	empty, err := h.Execute(context.Background(), &Input{Query: "billing", Session: sessionFor(t, "", "")})
	require.NoError(t, err)
	assert.Empty(t, empty.Citations)
}

func TestHandler_Execute_SecurityCitationBoost(t *testing.T) {
	visible := articles(t, "2005", "2003", "2007", "2008")

	tests := []struct {
		name   string
		userID string
		first  string
	}{
		{"knowledge author gets policy article first", "user-003", "2003"},
		{"admin keeps caller order", "user-004", "2005"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, nil, simulate.Instant())
			out, err := h.Execute(context.Background(), &Input{
				Query:    registry.SecurityQuery,
				Articles: visible,
				Session:  sessionFor(t, tt.userID, ""),
			})
			require.NoError(t, err)
			require.NotEmpty(t, out.Citations)
			assert.Equal(t, tt.first, out.Citations[0].ID)
			assert.Equal(t, 90, out.Confidence)
		})
	}
}

// ==========================
// Failure Injection
// ==========================

func TestHandler_Execute_SimulatedFailures(t *testing.T) {
	t.Run("network error is retryable", func(t *testing.T) {
		h := createTestHandler(t, nil, simulate.New(simulate.Sequence(0.01), 0))
		_, err := h.Execute(context.Background(), &Input{Query: "password", Session: sessionFor(t, "", "")})
		require.Error(t, err)
		assert.False(t, apperrors.IsAIUnavailable(err))
		ne := apperrors.Classify(err)
		assert.Equal(t, apperrors.ErrTypeNetwork, ne.Type)
		assert.True(t, ne.Retryable)
	})

	t.Run("service unavailable is distinct", func(t *testing.T) {
		h := createTestHandler(t, nil, simulate.New(simulate.Sequence(0.5, 0.01), 0))
		_, err := h.Execute(context.Background(), &Input{Query: "password", Session: sessionFor(t, "", "")})
		require.Error(t, err)
		assert.True(t, apperrors.IsAIUnavailable(err))
		assert.False(t, apperrors.Classify(err).Retryable)
		assert.Equal(t, apperrors.MsgAIUnavailable, apperrors.UserMessage(err))
	})
}

func TestHandler_Execute_Cancelled(t *testing.T) {
	h := createTestHandler(t, nil, simulate.Instant())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Execute(ctx, &Input{Query: "password", Session: sessionFor(t, "", "")})
	require.Error(t, err)
	assert.True(t, apperrors.IsAbort(err))
}

// ==========================
// Templates
// ==========================

func TestDetectIntent(t *testing.T) {
	tests := []struct {
		query string
		want  Intent
	}{
		{"forgot password", IntentPassword},
		{"reset mobile app", IntentPassword},
		{"mobile banking", IntentMobile},
		{"the app keeps crashing", IntentMobile},
		{"login loop", IntentAccount},
		{"payment declined", IntentBilling},
		{"calendar sync", IntentOutlook},
		{"strange error on checkout", IntentTechnical},
		{"hello", IntentDefault},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntent(tt.query))
		})
	}
}

func TestParseIntent(t *testing.T) {
	intent, ok := ParseIntent("security")
	assert.True(t, ok)
	assert.Equal(t, IntentSecurity, intent)

	intent, ok = ParseIntent("nope")
	assert.False(t, ok)
	assert.Equal(t, IntentDefault, intent)
	assert.Equal(t, "market", IntentMarket.String())
}

func TestRender_Tiers(t *testing.T) {
	premier := models.Customer{Tier: models.TierPremierBanking}
	private := models.Customer{Tier: models.TierPrivateClient}
	business := models.Customer{Tier: models.TierBusinessBanking}

	assert.Contains(t, Render(IntentPassword, premier), "relationship manager")
	assert.Contains(t, Render(IntentPassword, private), "concierge team is available 24/7")
	assert.True(t, strings.HasPrefix(Render(IntentPassword, business), "To reset your password"))

	assert.Contains(t, Render(IntentAccount, business), "business accounts")
	assert.NotContains(t, Render(IntentAccount, premier), "business accounts")
	assert.False(t, strings.HasSuffix(Render(IntentAccount, premier), " "))

	assert.Contains(t, Render(IntentBilling, private), "2-3 business days")
	assert.Contains(t, Render(IntentBilling, business), "5-7 business days")

	assert.Contains(t, Render(IntentMobile, premier), "1-800-PREMIUM")
	assert.Contains(t, Render(IntentMobile, business), "contact our support team")

	for intent := range intentNames {
		assert.NotEmpty(t, Render(intent, premier), intent.String())
	}
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "short...", Snippet("short", 150))
	assert.Equal(t, "abc...", Snippet("abcdef", 3))
	assert.Equal(t, "héé...", Snippet("héél", 3))
}
