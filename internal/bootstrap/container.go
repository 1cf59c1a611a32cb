// Package bootstrap wires configuration into a ready-to-use knowledge
// service. Both binaries build their dependencies here.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"knowledge-search/internal/access"
	generateanswer "knowledge-search/internal/adapters/ai/generate-answer"
	submitfeedback "knowledge-search/internal/adapters/ai/submit-feedback"
	fetchsuggestions "knowledge-search/internal/adapters/knowledge/fetch-suggestions"
	searchknowledge "knowledge-search/internal/adapters/knowledge/search-knowledge"
	checkpermissions "knowledge-search/internal/adapters/rbac/check-permissions"
	"knowledge-search/internal/api"
	"knowledge-search/internal/catalog"
	"knowledge-search/internal/common/config"
	"knowledge-search/internal/common/database"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/common/observability"
	"knowledge-search/internal/common/simulate"
	"knowledge-search/internal/common/validation"
	"knowledge-search/internal/console"
	"knowledge-search/internal/events"
	"knowledge-search/internal/history"
	"knowledge-search/internal/service"
	"knowledge-search/pkg/registry"
)

const recentFeedbackLimit = 100

type Container struct {
	Config        *config.Config
	Logger        logger.Logger
	Directory     *access.Directory
	Catalog       *catalog.MemoryStore
	Registry      *registry.ScenarioRegistry
	History       history.Store
	Service       *service.Service
	FeedbackBus   *events.FeedbackBus
	Feedback      *events.Recorder
	Observability *observability.Observability

	redis *database.RedisClient
}

// Options overrides parts of the configuration that tests and the CLI
// need to control.
type Options struct {
	// Simulator replaces the configured failure and latency source.
	Simulator *simulate.Simulator
	// Now pins the catalog's reference time.
	Now time.Time
	// DisableObservability skips the OpenTelemetry providers.
	DisableObservability bool
}

// NewContainer builds every collaborator of the service. Close releases
// what it opened.
func NewContainer(ctx context.Context, cfg *config.Config, log logger.Logger, opts Options) (*Container, error) {
	log = logger.OrNoOp(log)
	c := &Container{
		Config:    cfg,
		Logger:    log,
		Directory: access.NewDirectory(),
		Feedback:  events.NewRecorder(recentFeedbackLimit),
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	c.Catalog = catalog.NewDefaultStore(now)

	reg, err := registry.Load(cfg.Scenarios.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("load scenario registry: %w", err)
	}
	c.Registry = reg

	if c.History, err = c.newHistory(ctx); err != nil {
		return nil, err
	}

	if cfg.Observability.MetricsEnabled && !opts.DisableObservability {
		c.Observability, err = observability.New(observability.Options{
			ServiceName:    cfg.Observability.ServiceName,
			Version:        cfg.App.Version,
			JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		}, log)
		if err != nil {
			_ = c.closeRedis()
			return nil, fmt.Errorf("init observability: %w", err)
		}
	}

	c.FeedbackBus = events.NewFeedbackBus(log)
	if err := c.FeedbackBus.Consume(ctx, c.Feedback.Handle); err != nil {
		_ = c.Close(ctx)
		return nil, fmt.Errorf("subscribe feedback recorder: %w", err)
	}

	policies, err := service.PoliciesFromConfig(cfg)
	if err != nil {
		_ = c.Close(ctx)
		return nil, err
	}

	sim := opts.Simulator
	if sim == nil {
		sim = simulate.New(simulate.NewRandom(cfg.Simulation.Seed), cfg.Simulation.LatencyScale)
	}
	c.Service = service.New(c.handlers(sim), c.Catalog, c.History, policies, log)

	log.Info("Container initialized", map[string]interface{}{
		"historyBackend": cfg.History.Backend,
		"scenarios":      cfg.Scenarios.RegistryPath,
		"latencyScale":   cfg.Simulation.LatencyScale,
	})
	return c, nil
}

func (c *Container) handlers(sim *simulate.Simulator) service.Handlers {
	sc := c.Config.Simulation

	searchCfg := searchknowledge.LoadConfig()
	searchCfg.FailureRate = sc.SearchFailureRate

	suggestCfg := fetchsuggestions.LoadConfig()
	suggestCfg.FailureRate = sc.SuggestionFailureRate

	answerCfg := generateanswer.LoadConfig()
	answerCfg.NetworkFailureRate = sc.AINetworkFailureRate
	answerCfg.UnavailableRate = sc.AIUnavailableRate

	return service.Handlers{
		Search:      searchknowledge.NewHandler(searchCfg, c.Catalog, c.Registry, sim, c.Logger),
		Suggestions: fetchsuggestions.NewHandler(suggestCfg, c.Catalog, sim, c.Logger),
		Answer:      generateanswer.NewHandler(answerCfg, c.Registry, sim, c.Logger),
		Permissions: checkpermissions.NewHandler(checkpermissions.LoadConfig(), sim, c.Logger),
		Feedback:    submitfeedback.NewHandler(submitfeedback.LoadConfig(), sim, c.FeedbackBus, c.Logger),
	}
}

func (c *Container) newHistory(ctx context.Context) (history.Store, error) {
	hc := c.Config.History
	ttl := config.GetDuration(hc.TTL)
	if hc.Backend != "redis" {
		return history.NewMemoryStore(hc.Limit, ttl), nil
	}

	rc, err := database.NewRedis(c.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}
	if err := rc.Ping(ctx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	c.redis = rc
	c.Logger.Info("Redis connected successfully", map[string]interface{}{"address": c.Config.Redis.Address})
	return history.NewRedisStore(rc.GetClient(), hc.Limit, ttl), nil
}

// NewServer returns the HTTP API over the container's service.
func (c *Container) NewServer() (*api.Server, error) {
	v, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, err
	}
	return api.NewServer(api.Deps{
		Service:           c.Service,
		Sessions:          c.Directory,
		Feedback:          c.Feedback,
		Validator:         v,
		Observability:     c.Observability,
		DefaultUserID:     c.Config.Session.DefaultUserID,
		DefaultCustomerID: c.Config.Session.DefaultCustomerID,
		Version:           c.Config.App.Version,
		Logger:            c.Logger,
	}), nil
}

// ConsoleOptions converts the console section of the configuration.
func (c *Container) ConsoleOptions() console.Options {
	opts := console.Options{
		SuggestionDebounce: config.GetDuration(c.Config.Console.SuggestionDebounce),
		SubmitGrace:        config.GetDuration(c.Config.Console.SubmitGrace),
		Registry:           c.Registry,
	}
	if c.Observability != nil {
		opts.Recorder = c.Observability
	}
	return opts
}

func (c *Container) closeRedis() error {
	if c.redis == nil {
		return nil
	}
	err := c.redis.Close()
	c.redis = nil
	return err
}

func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.FeedbackBus != nil {
		errs = append(errs, c.FeedbackBus.Close())
	}
	if c.Observability != nil {
		errs = append(errs, c.Observability.Shutdown(ctx))
	}
	errs = append(errs, c.closeRedis())
	return errors.Join(errs...)
}
