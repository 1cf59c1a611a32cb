package console

import (
	"context"
	"sync"
	"unicode/utf8"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/models"
)

// MinAnswerQueryLength is the shortest query an answer is generated for.
const MinAnswerQueryLength = 2

type AssistantState struct {
	Response    *models.AIResponse
	Loading     bool
	Error       string
	AIAvailable bool
	Permissions *models.PermissionCheck
}

// AssistantSession generates AI answers for one session and remembers
// whether the AI service is currently usable.
type AssistantSession struct {
	backend  Backend
	recorder EventRecorder
	logger   logger.Logger

	mu      sync.Mutex
	session models.Session
	state   AssistantState
	gen     uint64
	cancel  context.CancelFunc
}

func NewAssistantSession(backend Backend, session models.Session, recorder EventRecorder, log logger.Logger) *AssistantSession {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &AssistantSession{
		backend:  backend,
		recorder: recorder,
		logger:   logger.OrNoOp(log).With(map[string]interface{}{"component": "assistant-session"}),
		session:  session,
		state:    AssistantState{AIAvailable: true},
	}
}

func (a *AssistantSession) State() AssistantState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// InitPermissions loads the permission check. On failure permissions stay
// unset and the error is only logged.
func (a *AssistantSession) InitPermissions(ctx context.Context) {
	a.mu.Lock()
	session := a.session
	a.mu.Unlock()

	perms, err := a.backend.Permissions(ctx, session)
	if err != nil {
		a.logger.Warn("Permission check failed", map[string]interface{}{
			"errorType": apperrors.Classify(err).Type,
		})
		perms = nil
	}
	a.mu.Lock()
	a.state.Permissions = perms
	a.mu.Unlock()
}

// Generate asks for an answer over articles. Queries shorter than two
// characters clear the response without a call. A newer Generate cancels
// an older one.
func (a *AssistantSession) Generate(ctx context.Context, query string, articles []models.Article) (*models.AIResponse, error) {
	a.mu.Lock()
	if utf8.RuneCountInString(query) < MinAnswerQueryLength {
		a.state.Response = nil
		a.mu.Unlock()
		return nil, nil
	}
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	a.gen++
	gen := a.gen
	a.cancel = cancel
	a.state.Loading = true
	a.state.Error = ""
	session := a.session
	a.mu.Unlock()
	defer cancel()

	resp, err := a.backend.Answer(ctx, session, query, articles)

	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.gen {
		return nil, nil
	}
	a.state.Loading = false
	a.cancel = nil

	switch {
	case err == nil:
		a.state.Response = resp
		a.state.AIAvailable = true
		a.recorder.RecordSessionEvent(ctx, "answer_generated")
		return resp, nil
	case apperrors.IsAIUnavailable(err):
		a.state.AIAvailable = false
		a.state.Error = apperrors.MsgAIUnavailable
		a.recorder.RecordSessionEvent(ctx, "ai_unavailable")
	case apperrors.IsAbort(err):
		return nil, nil
	default:
		a.state.Error = apperrors.UserMessage(err)
		a.recorder.RecordSessionEvent(ctx, "answer_failed")
	}
	a.logger.Warn("AI generation failed", map[string]interface{}{"error": err.Error()})
	a.state.Response = nil
	return nil, err
}

// RetryAI marks the AI service available again and reattempts.
func (a *AssistantSession) RetryAI(ctx context.Context, query string, articles []models.Article) (*models.AIResponse, error) {
	a.mu.Lock()
	a.state.AIAvailable = true
	a.mu.Unlock()
	return a.Generate(ctx, query, articles)
}

// SendFeedback submits feedback on the current response. Without a
// response there is nothing to rate and the receipt reports failure.
func (a *AssistantSession) SendFeedback(ctx context.Context, feedback models.Feedback) models.FeedbackReceipt {
	a.mu.Lock()
	resp := a.state.Response
	session := a.session
	a.mu.Unlock()

	if resp == nil {
		return models.FeedbackReceipt{Success: false}
	}
	receipt := a.backend.SubmitFeedback(ctx, session, resp.ID, feedback)
	if !receipt.Success {
		a.logger.Warn("Feedback not recorded", map[string]interface{}{"responseId": resp.ID})
	}
	return receipt
}

// Clear drops the current response and error.
func (a *AssistantSession) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
}

func (a *AssistantSession) clearLocked() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.gen++
	a.state.Response = nil
	a.state.Error = ""
	a.state.Loading = false
}

// SwitchSession resets all state for a new user or customer.
func (a *AssistantSession) SwitchSession(session models.Session) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
	a.session = session
	a.state = AssistantState{AIAvailable: true}
}
