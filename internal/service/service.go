// Package service is the in-process facade over the knowledge adapters.
// It applies each call site's timeout budget and retry policy, resolves
// citations against the catalog and owns search history.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"knowledge-search/internal/access"
	generateanswer "knowledge-search/internal/adapters/ai/generate-answer"
	submitfeedback "knowledge-search/internal/adapters/ai/submit-feedback"
	fetchsuggestions "knowledge-search/internal/adapters/knowledge/fetch-suggestions"
	searchknowledge "knowledge-search/internal/adapters/knowledge/search-knowledge"
	checkpermissions "knowledge-search/internal/adapters/rbac/check-permissions"
	"knowledge-search/internal/catalog"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/resilience"
	"knowledge-search/internal/history"
	"knowledge-search/internal/models"
)

const (
	suggestionCacheTTL     = 30 * time.Second
	suggestionCacheCleanup = time.Minute
)

// Handlers groups the adapters the service dispatches to.
type Handlers struct {
	Search      *searchknowledge.Handler
	Suggestions *fetchsuggestions.Handler
	Answer      *generateanswer.Handler
	Permissions *checkpermissions.Handler
	Feedback    *submitfeedback.Handler
}

type Service struct {
	handlers    Handlers
	store       catalog.Store
	history     history.Store
	policies    map[string]Policy
	suggestions *cache.Cache
	logger      logger.Logger
}

func New(handlers Handlers, store catalog.Store, hist history.Store, policies map[string]Policy, log logger.Logger) *Service {
	if policies == nil {
		policies = DefaultPolicies()
	}
	return &Service{
		handlers:    handlers,
		store:       store,
		history:     hist,
		policies:    policies,
		suggestions: cache.New(suggestionCacheTTL, suggestionCacheCleanup),
		logger:      logger.OrNoOp(log).With(map[string]interface{}{"component": "service"}),
	}
}

func call[T any](ctx context.Context, s *Service, op string, fn func(ctx context.Context) (T, error)) (T, error) {
	p, ok := s.policies[op]
	if !ok {
		p = Policy{Timeout: resilience.DefaultAPITimeout, Retry: resilience.RetryConfig{Operation: op}}
	}
	return resilience.WithTimeoutAndRetry(ctx, p.Timeout, p.Retry, s.logger, fn)
}

// Search runs a full search under the search policy.
func (s *Service) Search(ctx context.Context, session models.Session, req models.SearchRequest) (*models.SearchResponse, error) {
	return call(ctx, s, searchknowledge.TaskType, func(ctx context.Context) (*models.SearchResponse, error) {
		return s.handlers.Search.Execute(ctx, &searchknowledge.Input{
			Query:   req.Query,
			Filters: req.Filters,
			SortBy:  req.SortBy,
			Session: session,
		})
	})
}

// Suggestions returns type-ahead suggestions. Successful results are
// memoized per user and query for a short time.
func (s *Service) Suggestions(ctx context.Context, session models.Session, query string) ([]models.Article, error) {
	key := session.User.ID + "|" + strings.ToLower(query)
	if cached, ok := s.suggestions.Get(key); ok {
		return cached.([]models.Article), nil
	}

	out, err := call(ctx, s, fetchsuggestions.TaskType, func(ctx context.Context) (*fetchsuggestions.Output, error) {
		return s.handlers.Suggestions.Execute(ctx, &fetchsuggestions.Input{Query: query, Session: session})
	})
	if err != nil {
		return nil, err
	}
	s.suggestions.SetDefault(key, out.Suggestions)
	return out.Suggestions, nil
}

// Answer generates an AI answer citing only from articles.
func (s *Service) Answer(ctx context.Context, session models.Session, query string, articles []models.Article) (*models.AIResponse, error) {
	return call(ctx, s, generateanswer.TaskType, func(ctx context.Context) (*models.AIResponse, error) {
		return s.handlers.Answer.Execute(ctx, &generateanswer.Input{
			Query:    query,
			Articles: articles,
			Session:  session,
		})
	})
}

// AnswerForIDs resolves ids through the catalog, drops what the session
// user may not see and generates an answer over the rest.
func (s *Service) AnswerForIDs(ctx context.Context, session models.Session, query string, ids []string) (*models.AIResponse, error) {
	visible := access.FilterByPermissions(session.User, catalog.Lookup(s.store, ids))
	return s.Answer(ctx, session, query, visible)
}

func (s *Service) Permissions(ctx context.Context, session models.Session) (*models.PermissionCheck, error) {
	return call(ctx, s, checkpermissions.TaskType, func(ctx context.Context) (*models.PermissionCheck, error) {
		return s.handlers.Permissions.Execute(ctx, &checkpermissions.Input{Session: session})
	})
}

// SubmitFeedback never fails. When submission fails after retries the
// receipt reports Success false.
func (s *Service) SubmitFeedback(ctx context.Context, session models.Session, responseID string, feedback models.Feedback) models.FeedbackReceipt {
	out, err := call(ctx, s, submitfeedback.TaskType, func(ctx context.Context) (*models.FeedbackReceipt, error) {
		return s.handlers.Feedback.Execute(ctx, &submitfeedback.Input{
			ResponseID: responseID,
			Feedback:   feedback,
			Session:    session,
		})
	})
	if err != nil {
		ne := apperrors.Classify(err)
		s.logger.Warn("Feedback submission failed", map[string]interface{}{
			"responseId": responseID,
			"errorType":  ne.Type,
			"error":      ne.Message,
		})
		return models.FeedbackReceipt{Success: false, ResponseID: responseID}
	}
	return *out
}

// History returns the user's recent queries, most recent first.
func (s *Service) History(ctx context.Context, userID string) ([]string, error) {
	entries, err := s.history.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

func (s *Service) AddHistory(ctx context.Context, userID, query string) ([]string, error) {
	entries, err := s.history.Add(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("add history: %w", err)
	}
	return entries, nil
}

func (s *Service) ClearHistory(ctx context.Context, userID string) error {
	if err := s.history.Clear(ctx, userID); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Catalog exposes the article store backing the service.
func (s *Service) Catalog() catalog.Store {
	return s.store
}
