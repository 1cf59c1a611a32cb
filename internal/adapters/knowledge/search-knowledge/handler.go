// internal/adapters/knowledge/search-knowledge/handler.go
package searchknowledge

import (
	"context"
	"time"

	"knowledge-search/internal/access"
	"knowledge-search/internal/adapters"
	"knowledge-search/internal/catalog"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
	"knowledge-search/internal/search"
	"knowledge-search/pkg/registry"
)

const (
	TaskType = "search-knowledge"
)

type Handler struct {
	config   *Config
	store    catalog.Store
	registry *registry.ScenarioRegistry
	sim      *simulate.Simulator
	now      func() time.Time
	logger   logger.Logger
}

func NewHandler(config *Config, store catalog.Store, reg *registry.ScenarioRegistry, sim *simulate.Simulator, log logger.Logger) *Handler {
	if reg == nil {
		reg = registry.Default()
	}
	return &Handler{
		config:   config,
		store:    store,
		registry: reg,
		sim:      sim,
		now:      time.Now,
		logger: logger.OrNoOp(log).With(map[string]interface{}{
			"taskType": TaskType,
		}),
	}
}

// WithClock replaces the clock used by date-range filters.
func (h *Handler) WithClock(now func() time.Time) *Handler {
	h.now = now
	return h
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

	normalized := registry.Normalize(input.Query)
	if normalized == "" {
		return &Output{Results: []models.SearchResult{}}, nil
	}

	now := h.now()
	scenario, scripted := h.registry.Lookup(normalized)

	var candidates []models.Article
	if scripted && scenario.ArticleIDs != nil {
		candidates = catalog.Lookup(h.store, scenario.ArticleIDs)
	} else {
		candidates = h.buildCandidates(search.QueryWords(normalized), input.Filters, now)
	}

	candidates = search.FilterArticles(candidates, input.Filters, now)
	permitted := access.FilterByPermissions(input.Session.User, candidates)

	sortBy := input.SortBy
	if sortBy == "" {
		sortBy = models.SortRelevance
	}
	ordered := search.SortArticles(permitted, sortBy)

	var orderingKey string
	var priority []string
	if scripted && scenario.OrderingKey != "" {
		orderingKey = scenario.OrderingKey
		priority, _ = h.registry.Ordering(orderingKey)
		if sortBy == models.SortRelevance {
			ordered = search.ApplyOrderingWith(h.registry, orderingKey, ordered)
		}
	}

	summary := access.Summary(input.Session.User)
	results := make([]models.SearchResult, len(ordered))
	for i, a := range ordered {
		results[i] = models.SearchResult{Article: a, PermissionSummary: summary}
	}

	h.logger.Info("search completed", map[string]interface{}{
		"query":       normalized,
		"scripted":    scripted,
		"candidates":  len(candidates),
		"resultCount": len(results),
		"orderingKey": orderingKey,
		"userId":      input.Session.User.ID,
	})

	return &Output{Results: results, OrderingKey: orderingKey, OrderingPriority: priority}, nil
}

func (h *Handler) buildCandidates(words []string, filters models.SearchFilters, now time.Time) []models.Article {
	var out []models.Article
	for _, a := range h.store.All() {
		if search.MatchesAny(a, words) && search.PassesFilters(a, filters, now) {
			out = append(out, a)
		}
	}
	return out
}
