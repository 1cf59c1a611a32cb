package console

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	apperrors "knowledge-search/internal/common/errors"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/models"
	"knowledge-search/internal/search"
)

// SearchState is a snapshot of a SearchSession.
type SearchState struct {
	Query       string
	Filters     models.SearchFilters
	SortBy      models.SortKey
	Results     []models.Article
	Permission  models.PermissionSummary
	OrderingKey string
	Suggestions []models.Article
	Loading     bool
	Error       string
	History     []string
}

// SearchSession drives one user's search box. Only the most recently
// issued search and suggestion fetch may update its state; older ones are
// cancelled when superseded.
type SearchSession struct {
	backend Backend
	opts    Options
	now     func() time.Time
	logger  logger.Logger

	mu      sync.Mutex
	session models.Session
	state   SearchState
	// unfiltered holds the last server response before client-side filters.
	unfiltered []models.Article
	priority   []string

	searchGen    uint64
	searchCancel context.CancelFunc
	graceUntil   time.Time

	suggestGen    uint64
	suggestCancel context.CancelFunc
	suggestTimer  *time.Timer
}

func NewSearchSession(ctx context.Context, backend Backend, session models.Session, opts Options, log logger.Logger) *SearchSession {
	s := &SearchSession{
		backend: backend,
		opts:    opts.withDefaults(),
		now:     time.Now,
		logger:  logger.OrNoOp(log).With(map[string]interface{}{"component": "search-session"}),
	}
	s.reset(session)
	s.loadHistory(ctx)
	return s
}

func (s *SearchSession) reset(session models.Session) {
	s.session = session
	s.state = SearchState{
		Filters: models.DefaultFilters(),
		SortBy:  models.SortRelevance,
	}
	s.unfiltered = nil
	s.priority = nil
}

func (s *SearchSession) loadHistory(ctx context.Context) {
	entries, err := s.backend.History(ctx, s.userID())
	if err != nil {
		s.logger.Warn("Could not load search history", map[string]interface{}{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.state.History = entries
	s.mu.Unlock()
}

func (s *SearchSession) userID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.User.ID
}

// State returns a copy of the current state.
func (s *SearchSession) State() SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Results = append([]models.Article(nil), s.state.Results...)
	st.Suggestions = append([]models.Article(nil), s.state.Suggestions...)
	st.History = append([]string(nil), s.state.History...)
	return st
}

// SetQuery updates the query and schedules a debounced suggestion fetch.
// Nothing is fetched for queries of one character or less, while a search
// is loading or right after one was submitted.
func (s *SearchSession) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Query = query
	s.cancelSuggestionsLocked()

	if utf8.RuneCountInString(query) <= 1 {
		s.state.Suggestions = nil
		return
	}
	if s.state.Loading || s.now().Before(s.graceUntil) {
		return
	}

	s.suggestGen++
	gen := s.suggestGen
	session := s.session
	s.suggestTimer = time.AfterFunc(s.opts.SuggestionDebounce, func() {
		s.fetchSuggestions(gen, session, query)
	})
}

func (s *SearchSession) fetchSuggestions(gen uint64, session models.Session, query string) {
	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	if gen != s.suggestGen {
		s.mu.Unlock()
		cancel()
		return
	}
	s.suggestCancel = cancel
	s.mu.Unlock()
	defer cancel()

	matches, err := s.backend.Suggestions(ctx, session, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.suggestGen || ctx.Err() != nil {
		return
	}
	s.suggestCancel = nil
	if err != nil {
		if !apperrors.IsAbort(err) {
			s.logger.Warn("Failed to load suggestions", map[string]interface{}{"error": err.Error()})
			s.state.Suggestions = nil
		}
		return
	}
	s.state.Suggestions = matches
}

func (s *SearchSession) cancelSuggestionsLocked() {
	s.suggestGen++
	if s.suggestTimer != nil {
		s.suggestTimer.Stop()
		s.suggestTimer = nil
	}
	if s.suggestCancel != nil {
		s.suggestCancel()
		s.suggestCancel = nil
	}
}

// Search submits query, or the current query when query is empty. The
// server is asked for unfiltered results; the session filters them
// locally so filter changes need no round trip. A superseded or cancelled
// search returns nil without an error.
func (s *SearchSession) Search(ctx context.Context, query string) (*models.SearchResponse, error) {
	s.mu.Lock()
	if query == "" {
		query = s.state.Query
	}
	if strings.TrimSpace(query) == "" {
		s.state.Results = nil
		s.unfiltered = nil
		s.priority = nil
		s.state.OrderingKey = ""
		s.mu.Unlock()
		return nil, nil
	}

	if s.searchCancel != nil {
		s.searchCancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.searchGen++
	gen := s.searchGen
	s.searchCancel = cancel

	s.cancelSuggestionsLocked()
	s.state.Query = query
	s.state.Loading = true
	s.state.Error = ""
	s.state.Suggestions = nil
	s.state.OrderingKey = ""
	s.priority = nil
	session := s.session
	sortBy := s.state.SortBy
	s.mu.Unlock()

	defer cancel()
	s.addHistory(ctx, session.User.ID, query)

	resp, err := s.backend.Search(ctx, session, models.SearchRequest{
		Query:   query,
		Filters: models.DefaultFilters(),
		SortBy:  sortBy,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	current := gen == s.searchGen
	if current {
		s.state.Loading = false
		s.searchCancel = nil
		s.graceUntil = s.now().Add(s.opts.SubmitGrace)
	}

	if err != nil {
		if apperrors.IsAbort(err) || !current {
			s.opts.Recorder.RecordSessionEvent(ctx, "search_aborted")
			return nil, nil
		}
		s.state.Error = apperrors.UserMessage(err)
		s.opts.Recorder.RecordSessionEvent(ctx, "search_failed")
		s.logger.Warn("Search failed", map[string]interface{}{
			"query":     query,
			"errorType": apperrors.Classify(err).Type,
		})
		return nil, err
	}
	if !current {
		return nil, nil
	}

	s.unfiltered = resp.Articles()
	s.state.OrderingKey = resp.OrderingKey
	s.priority = resp.OrderingPriority
	if len(resp.Results) > 0 {
		s.state.Permission = resp.Results[0].PermissionSummary
	}
	s.applyLocked()
	s.opts.Recorder.RecordSessionEvent(ctx, "search_completed")
	return resp, nil
}

func (s *SearchSession) addHistory(ctx context.Context, userID, query string) {
	entries, err := s.backend.AddHistory(ctx, userID, strings.TrimSpace(query))
	if err != nil {
		s.logger.Warn("Could not record search history", map[string]interface{}{"error": err.Error()})
		return
	}
	s.mu.Lock()
	s.state.History = entries
	s.mu.Unlock()
}

// SetFilters replaces the filters and refilters the last results locally.
func (s *SearchSession) SetFilters(filters models.SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Filters = filters
	s.applyLocked()
}

// SetSort reorders the current results. The ordering rule of the last
// response is reapplied only under relevance.
func (s *SearchSession) SetSort(key models.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SortBy = key
	s.applyLocked()
}

func (s *SearchSession) applyLocked() {
	if s.unfiltered == nil {
		return
	}
	results := search.FilterArticles(s.unfiltered, s.state.Filters, s.now())
	results = search.SortArticles(results, s.state.SortBy)
	if s.state.SortBy == models.SortRelevance && s.state.OrderingKey != "" {
		if len(s.priority) > 0 {
			results = search.Prioritize(results, s.priority)
		} else {
			results = search.ApplyOrderingWith(s.opts.Registry, s.state.OrderingKey, results)
		}
	}
	s.state.Results = results
}

func (s *SearchSession) ClearHistory(ctx context.Context) error {
	if err := s.backend.ClearHistory(ctx, s.userID()); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.History = nil
	s.mu.Unlock()
	return nil
}

// SwitchSession cancels in-flight work and starts over for another user
// or customer.
func (s *SearchSession) SwitchSession(ctx context.Context, session models.Session) {
	s.mu.Lock()
	s.cancelAllLocked()
	s.reset(session)
	s.mu.Unlock()
	s.loadHistory(ctx)
}

// Close cancels any in-flight search or suggestion fetch.
func (s *SearchSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelAllLocked()
}

func (s *SearchSession) cancelAllLocked() {
	s.cancelSuggestionsLocked()
	if s.searchCancel != nil {
		s.searchCancel()
		s.searchCancel = nil
	}
	s.searchGen++
	s.state.Loading = false
}
