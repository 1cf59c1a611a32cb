package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	apperrors "knowledge-search/internal/common/errors"
	httpclient "knowledge-search/internal/common/http"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/models"
)

// Client talks to a knowledge server. It has the same method set as the
// in-process service, so console sessions can run against either.
type Client struct {
	http   *httpclient.Client
	logger logger.Logger
}

func NewClient(c *httpclient.Client, log logger.Logger) *Client {
	return &Client{http: c, logger: logger.OrNoOp(log)}
}

func sessionHeaders(s models.Session) http.Header {
	h := http.Header{}
	if s.User.ID != "" {
		h.Set(HeaderUserID, s.User.ID)
	}
	if s.Customer.ID != "" {
		h.Set(HeaderCustomerID, s.Customer.ID)
	}
	return h
}

func userHeaders(userID string) http.Header {
	return sessionHeaders(models.Session{User: models.User{ID: userID}})
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(validation.DateLayout)
	return &s
}

func (c *Client) Search(ctx context.Context, session models.Session, req models.SearchRequest) (*models.SearchResponse, error) {
	body := SearchRequest{
		Query: req.Query,
		Filters: FiltersParams{
			Category:  string(req.Filters.Category),
			DateRange: string(req.Filters.DateRange),
			StartDate: formatDate(req.Filters.StartDate),
			EndDate:   formatDate(req.Filters.EndDate),
		},
		SortBy: string(req.SortBy),
	}
	var out models.SearchResponse
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodPost, "/api/knowledge/search", sessionHeaders(session), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Suggestions(ctx context.Context, session models.Session, query string) ([]models.Article, error) {
	var out SuggestionsResponse
	path := "/api/knowledge/suggestions?q=" + url.QueryEscape(query)
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodGet, path, sessionHeaders(session), nil, &out); err != nil {
		return nil, err
	}
	return out.Suggestions, nil
}

// Answer sends only article ids; the server resolves and permission-filters them.
func (c *Client) Answer(ctx context.Context, session models.Session, query string, articles []models.Article) (*models.AIResponse, error) {
	return c.AnswerForIDs(ctx, session, query, models.ArticleIDs(articles))
}

func (c *Client) AnswerForIDs(ctx context.Context, session models.Session, query string, ids []string) (*models.AIResponse, error) {
	var out models.AIResponse
	body := AnswerRequest{Query: query, ArticleIDs: ids}
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodPost, "/api/ai/answer", sessionHeaders(session), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Permissions(ctx context.Context, session models.Session) (*models.PermissionCheck, error) {
	var out models.PermissionCheck
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodGet, "/api/permissions/me", sessionHeaders(session), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, session models.Session, responseID string, feedback models.Feedback) models.FeedbackReceipt {
	var out models.FeedbackReceipt
	body := FeedbackRequest{ResponseID: responseID, Feedback: feedback}
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodPost, "/api/ai/feedback", sessionHeaders(session), body, &out); err != nil {
		c.logger.Warn("Feedback submission failed", map[string]interface{}{
			"responseId": responseID,
			"errorType":  apperrors.Classify(err).Type,
		})
		return models.FeedbackReceipt{Success: false, ResponseID: responseID}
	}
	return out
}

func (c *Client) History(ctx context.Context, userID string) ([]string, error) {
	var out HistoryResponse
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodGet, "/api/history", userHeaders(userID), nil, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) AddHistory(ctx context.Context, userID, query string) ([]string, error) {
	var out HistoryResponse
	if err := c.http.DoJSONWithHeaders(ctx, http.MethodPost, "/api/history", userHeaders(userID), HistoryRequest{Query: query}, &out); err != nil {
		return nil, err
	}
	return out.Entries, nil
}

func (c *Client) ClearHistory(ctx context.Context, userID string) error {
	return c.http.DoJSONWithHeaders(ctx, http.MethodDelete, "/api/history", userHeaders(userID), nil, nil)
}

// RecentFeedback lists feedback the server has received.
func (c *Client) RecentFeedback(ctx context.Context) ([]models.FeedbackEvent, error) {
	var out FeedbackListResponse
	if err := c.http.DoJSON(ctx, http.MethodGet, "/api/ai/feedback", nil, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}
