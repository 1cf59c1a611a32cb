// internal/adapters/knowledge/fetch-suggestions/handler.go
package fetchsuggestions

import (
	"context"
	"strings"
	"unicode/utf8"

	"knowledge-search/internal/access"
	"knowledge-search/internal/adapters"
	"knowledge-search/internal/catalog"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
)

const (
	TaskType = "fetch-suggestions"
)

type Handler struct {
	config *Config
	store  catalog.Store
	sim    *simulate.Simulator
	logger logger.Logger
}

func NewHandler(config *Config, store catalog.Store, sim *simulate.Simulator, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		sim:    sim,
		logger: logger.OrNoOp(log).With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return adapters.Instrument(ctx, TaskType, input.Session, func(ctx context.Context) (*Output, error) {
		return h.execute(ctx, input)
	})
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if h.sim.Fail(TaskType, "network", h.config.FailureRate) {
		return nil, apperrors.NewNetworkError("Simulated network error")
	}

	if err := h.sim.Latency(ctx, h.config.MinLatency, h.config.MaxLatency); err != nil {
		return nil, err
	}

	// Length is checked on the trimmed query, matching is not.
	if utf8.RuneCountInString(strings.TrimSpace(input.Query)) < h.config.MinQueryLength {
		return &Output{Suggestions: []models.Article{}}, nil
	}

	term := strings.ToLower(input.Query)
	var matches []models.Article
	for _, a := range h.store.All() {
		if strings.Contains(strings.ToLower(a.Title), term) ||
			strings.Contains(strings.ToLower(string(a.Category)), term) {
			matches = append(matches, a)
		}
	}

	matches = access.FilterByPermissions(input.Session.User, matches)
	if len(matches) > h.config.MaxSuggestions {
		matches = matches[:h.config.MaxSuggestions]
	}

	h.logger.Debug("suggestions resolved", map[string]interface{}{
		"query": input.Query,
		"count": len(matches),
	})

	return &Output{Suggestions: matches}, nil
}
