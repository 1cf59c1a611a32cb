package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/models"
)

// SearchRequest is the wire form of a search. Dates are YYYY-MM-DD.
type SearchRequest struct {
	Query   string        `json:"query"`
	Filters FiltersParams `json:"filters"`
	SortBy  string        `json:"sortBy,omitempty"`
}

type FiltersParams struct {
	Category  string  `json:"category,omitempty"`
	DateRange string  `json:"dateRange,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}

type AnswerRequest struct {
	Query      string   `json:"query"`
	ArticleIDs []string `json:"articleIds"`
}

type FeedbackRequest struct {
	ResponseID string          `json:"responseId"`
	Feedback   models.Feedback `json:"feedback"`
}

type SuggestionsResponse struct {
	Suggestions []models.Article `json:"suggestions"`
}

type HistoryRequest struct {
	Query string `json:"query"`
}

type HistoryResponse struct {
	UserID  string   `json:"userId"`
	Entries []string `json:"entries"`
}

type FeedbackListResponse struct {
	Events []models.FeedbackEvent `json:"events"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: s.deps.Version})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	const op = "search"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	var req SearchRequest
	if !s.decode(w, r, op, validation.SchemaSearchRequest, &req) {
		return
	}

	query := req.Query
	if strings.TrimSpace(query) != "" {
		var err error
		if query, err = validation.ValidateSearchQuery(query); err != nil {
			s.errors.Handle(w, op, err)
			return
		}
	}
	filters, err := validation.ParseFilters(req.Filters.Category, req.Filters.DateRange,
		deref(req.Filters.StartDate), deref(req.Filters.EndDate), s.now())
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	sortBy, err := validation.ValidateSortKey(req.SortBy)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}

	resp, err := s.deps.Service.Search(r.Context(), session, models.SearchRequest{
		Query:   query,
		Filters: filters,
		SortBy:  sortBy,
	})
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	const op = "suggestions"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	query := validation.SanitizeQuery(r.URL.Query().Get("q"))

	out, err := s.deps.Service.Suggestions(r.Context(), session, query)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	if out == nil {
		out = []models.Article{}
	}
	writeJSON(w, http.StatusOK, SuggestionsResponse{Suggestions: out})
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	const op = "answer"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	var req AnswerRequest
	if !s.decode(w, r, op, validation.SchemaAnswerRequest, &req) {
		return
	}
	query, err := validation.ValidateSearchQuery(req.Query)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}

	resp, err := s.deps.Service.AnswerForIDs(r.Context(), session, query, req.ArticleIDs)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFeedback always answers 200; a failed submission is reported in
// the receipt.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	const op = "feedback"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	var req FeedbackRequest
	if !s.decode(w, r, op, validation.SchemaFeedbackRequest, &req) {
		return
	}
	fb, err := validation.ValidateFeedback(req.Feedback)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Service.SubmitFeedback(r.Context(), session, req.ResponseID, fb))
}

func (s *Server) handleRecentFeedback(w http.ResponseWriter, r *http.Request) {
	events := []models.FeedbackEvent{}
	if s.deps.Feedback != nil {
		events = append(events, s.deps.Feedback.Recent()...)
	}
	writeJSON(w, http.StatusOK, FeedbackListResponse{Events: events})
}

func (s *Server) handlePermissions(w http.ResponseWriter, r *http.Request) {
	const op = "permissions"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	check, err := s.deps.Service.Permissions(r.Context(), session)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, check)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "history"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	entries, err := s.deps.Service.History(r.Context(), session.User.ID)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	if entries == nil {
		entries = []string{}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{UserID: session.User.ID, Entries: entries})
}

func (s *Server) handleAddHistory(w http.ResponseWriter, r *http.Request) {
	const op = "history"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	var req HistoryRequest
	if !s.decode(w, r, op, validation.SchemaHistoryRequest, &req) {
		return
	}
	query, err := validation.ValidateSearchQuery(req.Query)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	entries, err := s.deps.Service.AddHistory(r.Context(), session.User.ID, query)
	if err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{UserID: session.User.ID, Entries: entries})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	const op = "history"
	session, ok := s.session(w, r, op)
	if !ok {
		return
	}
	if err := s.deps.Service.ClearHistory(r.Context(), session.User.ID); err != nil {
		s.errors.Handle(w, op, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Helpers
// ==========================

func (s *Server) session(w http.ResponseWriter, r *http.Request, op string) (models.Session, bool) {
	userID := r.Header.Get(HeaderUserID)
	if userID == "" {
		userID = s.deps.DefaultUserID
	}
	customerID := r.Header.Get(HeaderCustomerID)
	if customerID == "" {
		customerID = s.deps.DefaultCustomerID
	}
	session, err := s.deps.Sessions.Session(userID, customerID)
	if err != nil {
		s.errors.Handle(w, op, apperrors.NewValidationError("session", err.Error()))
		return models.Session{}, false
	}
	return session, true
}

// decode validates the body against schema and unmarshals it into dst.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, op, schema string, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		s.errors.Handle(w, op, apperrors.NewValidationError("(root)", "could not read request body"))
		return false
	}
	if s.deps.Validator != nil {
		result, err := s.deps.Validator.Validate(schema, body)
		if err != nil {
			s.errors.Handle(w, op, err)
			return false
		}
		if err := result.Err(); err != nil {
			s.errors.Handle(w, op, err)
			return false
		}
	}
	if err := json.Unmarshal(body, dst); err != nil {
		s.errors.Handle(w, op, apperrors.NewValidationError("(root)", "malformed JSON body"))
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
