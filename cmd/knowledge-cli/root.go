package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"knowledge-search/internal/access"
	"knowledge-search/internal/api"
	"knowledge-search/internal/bootstrap"
	"knowledge-search/internal/common/config"
	httpclient "knowledge-search/internal/common/http"
	"knowledge-search/internal/common/logger"
	"knowledge-search/internal/console"
	"knowledge-search/internal/models"
)

var (
	configPath string
	userID     string
	customerID string
	serverURL  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "knowledge-cli",
	Short: "Search the knowledge base and ask the AI assistant",
	Long: `knowledge-cli runs searches, suggestions and AI answers as a given
support user. It works in-process by default; pass --server to talk to a
running knowledge-server instead.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to a config file (default: configs/config.yaml)")
	pf.StringVarP(&userID, "user", "u", "", "acting user id (default from config)")
	pf.StringVarP(&customerID, "customer", "c", "", "customer in context (default from config)")
	pf.StringVar(&serverURL, "server", "", "knowledge-server base URL; empty runs in-process")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log adapter activity to stderr")
}

// runtime is what every subcommand works against.
type runtime struct {
	backend console.Backend
	session models.Session
	options console.Options
	logger  logger.Logger
	close   func()
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := "error"
	if verbose {
		level = "debug"
	}
	log := logger.NewStructured(logger.Options{Level: level, Format: "console", Output: "stderr"})

	if userID == "" {
		userID = cfg.Session.DefaultUserID
	}
	if customerID == "" {
		customerID = cfg.Session.DefaultCustomerID
	}
	session, err := access.NewDirectory().Session(userID, customerID)
	if err != nil {
		return nil, err
	}

	rt := &runtime{
		session: session,
		logger:  log,
		options: console.Options{
			SuggestionDebounce: config.GetDuration(cfg.Console.SuggestionDebounce),
			SubmitGrace:        config.GetDuration(cfg.Console.SubmitGrace),
		},
		close: func() {},
	}

	if serverURL != "" {
		retry, err := cfg.Client.Retry.RetryConfig("knowledge-client")
		if err != nil {
			return nil, err
		}
		c := httpclient.NewClient(serverURL, config.GetDuration(cfg.Client.Timeout), retry, log)
		rt.backend = api.NewClient(c, log)
		return rt, nil
	}

	container, err := bootstrap.NewContainer(ctx, cfg, log, bootstrap.Options{DisableObservability: true})
	if err != nil {
		return nil, fmt.Errorf("start in-process service: %w", err)
	}
	rt.backend = container.Service
	rt.options.Registry = container.Registry
	rt.close = func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = container.Close(closeCtx)
	}
	return rt, nil
}

// withRuntime adapts a command body that needs a runtime into a RunE.
func withRuntime(run func(cmd *cobra.Command, rt *runtime, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.close()
		return run(cmd, rt, args)
	}
}
