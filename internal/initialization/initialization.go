package initialization

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"

	"titlebot/internal"
	"titlebot/internal/commands"
	"titlebot/internal/config"
	"titlebot/internal/handlers"
	"titlebot/internal/logger"
	"titlebot/internal/lookup"
	"titlebot/internal/plugin"
	"titlebot/internal/security"
	"titlebot/internal/urltitle"
	"titlebot/internal/webclient"
	"titlebot/pkg/plugins/imageinfo"
)

const (
	floodPruneInterval = 10 * time.Minute
	floodIdleTimeout   = time.Hour
)

// Bot holds everything built from the configuration.
type Bot struct {
	Config     *config.Config
	Pipeline   *urltitle.Pipeline
	Router     *commands.Router
	Plugins    *plugin.Manager
	Flood      *security.FloodGuard
	Dispatcher *handlers.Dispatcher
}

// Initialize loads the environment and configuration and wires the bot
// together. ctx bounds every request the bot makes.
func Initialize(ctx context.Context) (*Bot, error) {
	if err := godotenv.Load(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		logger.Debugf("No .env file found, using the process environment")
	}

	errorLogPath := envOr("ERROR_LOG_PATH", internal.DEFAULT_ERROR_LOG_PATH)
	if err := logger.OpenErrorLog(errorLogPath); err != nil {
		logger.Warnf("Error log disabled: %v", err)
	}

	configPath := envOr("CONFIG_PATH", internal.DEFAULT_CONFIG_PATH)
	logger.Infof("Loading configuration from %s", configPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	b, err := Build(ctx, cfg)
	if err != nil {
		return nil, err
	}

	initializePlugins(b.Plugins)
	return b, nil
}

// Build creates every component from cfg and registers the built-in
// commands and plugins. It does not touch the environment or the disk.
func Build(ctx context.Context, cfg *config.Config) (*Bot, error) {
	excludes, err := config.CompileExclusions(cfg.URL.Exclude)
	if err != nil {
		return nil, err
	}

	verifyTLS := cfg.VerifyTLS()
	if !verifyTLS {
		logger.Warnf("TLS certificate verification is disabled")
	}

	registry := urltitle.NewRegistry(excludes)

	var shortener urltitle.Shortener
	if cfg.URL.ShortenURLLength > 0 {
		shortener = urltitle.NewShortenerCache(cfg.URL.ShortenURLLength, cfg.URL.ShortenerEndpoint,
			webclient.New(urltitle.ShortenTimeout, verifyTLS))
	}

	pipeline := urltitle.NewPipeline(urltitle.Options{
		ExclusionChar: cfg.URL.ExclusionChar,
		CommandPrefix: cfg.CommandPrefix,
		Registry:      registry,
		Titles:        urltitle.NewTitleResolver(webclient.New(urltitle.TitleTimeout, verifyTLS)),
		Shortener:     shortener,
	})

	apiClient := webclient.New(webclient.DefaultTimeout, verifyTLS)
	router := commands.NewRouter(cfg.CommandPrefix)
	plugins := plugin.NewManager(router, registry)

	err = commands.RegisterBuiltins(router, commands.Deps{
		Titles:   pipeline,
		Rates:    lookup.NewCurrencyClient(cfg.Currency.Endpoint, apiClient),
		Airports: lookup.NewAirportClient(cfg.Airport.Endpoint, apiClient),
		Plugins:  plugins,
	})
	if err != nil {
		return nil, err
	}

	if err := plugins.Register(imageinfo.New(webclient.New(webclient.DefaultTimeout, verifyTLS)), ""); err != nil {
		return nil, err
	}

	flood := security.NewFloodGuard(cfg.Flood.TitlesPerMinute, cfg.Flood.Burst)

	dispatcher := handlers.NewDispatcher(ctx, handlers.Options{
		Password:  cfg.Password,
		Channels:  cfg.Channels,
		Router:    router,
		Pipeline:  pipeline,
		Flood:     flood,
		JoinDelay: time.Duration(internal.DEFAULT_JOIN_DELAY) * time.Second,
	})

	return &Bot{
		Config:     cfg,
		Pipeline:   pipeline,
		Router:     router,
		Plugins:    plugins,
		Flood:      flood,
		Dispatcher: dispatcher,
	}, nil
}

// RunMaintenance prunes idle flood-guard entries until ctx is done.
func (b *Bot) RunMaintenance(ctx context.Context) {
	if !b.Flood.Enabled() {
		return
	}
	ticker := time.NewTicker(floodPruneInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.pruneFlood(floodIdleTimeout)
		}
	}
}

func (b *Bot) pruneFlood(idle time.Duration) int {
	n := b.Flood.Prune(idle)
	if n > 0 {
		logger.Debugf("Forgot %d idle hostmasks, %d still tracked", n, b.Flood.Tracked())
	}
	return n
}

func initializePlugins(mgr *plugin.Manager) {
	pluginsPath := envOr("PLUGINS_PATH", internal.DEFAULT_PLUGINS_PATH)

	if _, err := os.Stat(pluginsPath); errors.Is(err, fs.ErrNotExist) {
		logger.Debugf("Plugin directory %s does not exist, skipping", pluginsPath)
		return
	}

	logger.Infof("Loading plugins from %s", pluginsPath)
	pluginsLoaded, err := mgr.LoadPluginsFromDir(pluginsPath)
	if err != nil {
		logger.Warnf("Error loading plugins: %v", err)
	} else {
		logger.Successf("Successfully loaded %d plugins from %s", pluginsLoaded, pluginsPath)
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
