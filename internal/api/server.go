// Package api exposes the knowledge service over HTTP and provides the
// matching client used by the CLI in remote mode.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/observability"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/models"
)

const (
	HeaderUserID     = "X-User-ID"
	HeaderCustomerID = "X-Customer-ID"
	HeaderRequestID  = "X-Request-ID"

	maxBodyBytes = 1 << 20
)

// KnowledgeService is the service surface the API serves.
type KnowledgeService interface {
	Search(ctx context.Context, session models.Session, req models.SearchRequest) (*models.SearchResponse, error)
	Suggestions(ctx context.Context, session models.Session, query string) ([]models.Article, error)
	AnswerForIDs(ctx context.Context, session models.Session, query string, ids []string) (*models.AIResponse, error)
	Permissions(ctx context.Context, session models.Session) (*models.PermissionCheck, error)
	SubmitFeedback(ctx context.Context, session models.Session, responseID string, feedback models.Feedback) models.FeedbackReceipt
	History(ctx context.Context, userID string) ([]string, error)
	AddHistory(ctx context.Context, userID, query string) ([]string, error)
	ClearHistory(ctx context.Context, userID string) error
}

// SessionResolver turns request headers into a session.
type SessionResolver interface {
	Session(userID, customerID string) (models.Session, error)
}

// FeedbackLog lists recently received feedback events.
type FeedbackLog interface {
	Recent() []models.FeedbackEvent
}

// Deps are the collaborators of a Server. Feedback, Observability and
// MetricsHandler are optional.
type Deps struct {
	Service           KnowledgeService
	Sessions          SessionResolver
	Feedback          FeedbackLog
	Validator         *validation.SchemaValidator
	Observability     *observability.Observability
	MetricsHandler    http.Handler
	DefaultUserID     string
	DefaultCustomerID string
	Version           string
	Logger            logger.Logger
}

type Server struct {
	deps   Deps
	errors *apperrors.ErrorHandler
	now    func() time.Time
	logger logger.Logger
}

func NewServer(deps Deps) *Server {
	log := logger.OrNoOp(deps.Logger).With(map[string]interface{}{"component": "api"})
	if deps.MetricsHandler == nil {
		deps.MetricsHandler = promhttp.Handler()
	}
	return &Server{
		deps:   deps,
		errors: apperrors.NewErrorHandler(log),
		now:    time.Now,
		logger: log,
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	router := mux.NewRouter()
	router.Use(s.requestIDMiddleware, s.observeMiddleware)
	router.MethodNotAllowedHandler = http.HandlerFunc(s.handleMethodNotAllowed)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.deps.MetricsHandler).Methods(http.MethodGet)

	router.HandleFunc("/api/knowledge/search", s.handleSearch).Methods(http.MethodPost)
	router.HandleFunc("/api/knowledge/suggestions", s.handleSuggestions).Methods(http.MethodGet)
	router.HandleFunc("/api/ai/answer", s.handleAnswer).Methods(http.MethodPost)
	router.HandleFunc("/api/ai/feedback", s.handleFeedback).Methods(http.MethodPost)
	router.HandleFunc("/api/ai/feedback", s.handleRecentFeedback).Methods(http.MethodGet)
	router.HandleFunc("/api/permissions/me", s.handlePermissions).Methods(http.MethodGet)
	router.HandleFunc("/api/history", s.handleHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/history", s.handleAddHistory).Methods(http.MethodPost)
	router.HandleFunc("/api/history", s.handleClearHistory).Methods(http.MethodDelete)

	return router
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, apperrors.ErrorBody{Error: apperrors.ErrorDetail{
		Type:    "METHOD_NOT_ALLOWED",
		Message: fmt.Sprintf("%s is not supported on %s", r.Method, r.URL.Path),
	}})
}
