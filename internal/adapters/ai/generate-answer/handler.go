// internal/adapters/ai/generate-answer/handler.go
package generateanswer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"knowledge-search/internal/adapters"
	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/models"
	"knowledge-search/pkg/registry"
)

const (
	TaskType = "generate-answer"
)

type Handler struct {
	config   *Config
	registry *registry.ScenarioRegistry
	sim      *simulate.Simulator
	now      func() time.Time
	logger   logger.Logger
}

func NewHandler(config *Config, reg *registry.ScenarioRegistry, sim *simulate.Simulator, log logger.Logger) *Handler {
	if reg == nil {
		reg = registry.Default()
	}
	return &Handler{
		config:   config,
		registry: reg,
		sim:      sim,
		now:      time.Now,
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
	if h.sim.Fail(TaskType, "network", h.config.NetworkFailureRate) {
		return nil, apperrors.NewNetworkError("AI service network error")
	}
	if h.sim.Fail(TaskType, "unavailable", h.config.UnavailableRate) {
		return nil, fmt.Errorf("generate answer: %w", apperrors.ErrAIServiceUnavailable)
	}

	if err := h.sim.Latency(ctx, h.config.MinLatency, h.config.MaxLatency); err != nil {
		return nil, err
	}

	normalized := registry.Normalize(input.Query)
	scenario, scripted := h.registry.Lookup(normalized)

	intent := DetectIntent(normalized)
	scriptedTemplate := scripted && scenario.AnswerTemplate != ""
	if scriptedTemplate {
		intent, _ = ParseIntent(scenario.AnswerTemplate)
	}

	confidence := h.config.BaseConfidence + int(h.sim.Float64()*float64(h.config.ConfidenceSpread))
	if scripted && scenario.Confidence > 0 {
		confidence = scenario.Confidence
	}

	candidates := input.Articles
	if scriptedTemplate {
		candidates = h.boostCitation(scenario.AnswerTemplate, input.Session.User.Role.ID, candidates)
	}
	citations := h.buildCitations(candidates, input.Articles)

	user := input.Session.User
	resp := &Output{
		ID:          "resp-" + uuid.New().String(),
		Answer:      Render(intent, input.Session.Customer),
		Confidence:  confidence,
		IsConfident: models.IsConfident(confidence),
		Citations:   citations,
		GeneratedAt: h.now().UTC(),
		QueryContext: models.QueryContext{
			OriginalQuery:   input.Query,
			NormalizedQuery: normalized,
			SessionScoped:   true,
			PermissionLevel: user.Role.ID,
			RedactedFields:  append([]string(nil), h.config.RedactedFields...),
		},
		Guardrails: models.Guardrails{
			PassedSafetyCheck: true,
			PolicyCompliant:   true,
			SourceVerified:    true,
		},
	}

	h.logger.Info("answer generated", map[string]interface{}{
		"responseId": resp.ID,
		"intent":     intent.String(),
		"scripted":   scripted,
		"confidence": confidence,
		"citations":  len(citations),
		"customerId": input.Session.Customer.ID,
	})

	return resp, nil
}

// boostCitation moves the configured article to the front for the role.
func (h *Handler) boostCitation(template string, role models.RoleID, items []models.Article) []models.Article {
	id, ok := h.registry.CitationBoost(template, string(role))
	if !ok {
		return items
	}
	idx := -1
	for i, a := range items {
		if a.ID == id {
			idx = i
			break
		}
	}
	if idx <= 0 {
		return items
	}
	out := make([]models.Article, 0, len(items))
	out = append(out, items[idx])
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func (h *Handler) buildCitations(candidates, visible []models.Article) []models.Citation {
	visibleIDs := make(map[string]bool, len(visible))
	for _, a := range visible {
		visibleIDs[a.ID] = true
	}

	citations := make([]models.Citation, 0, h.config.MaxCitations)
	for _, a := range candidates {
		if len(citations) == h.config.MaxCitations {
			break
		}
		if !visibleIDs[a.ID] {
			continue
		}
		citations = append(citations, models.Citation{
			ID:       a.ID,
			Title:    a.Title,
			Content:  Snippet(a.Content, h.config.SnippetLength),
			Category: a.Category,
		})
	}
	return citations
}

// Snippet keeps the first n runes of content and appends an ellipsis.
func Snippet(content string, n int) string {
	r := []rune(content)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
