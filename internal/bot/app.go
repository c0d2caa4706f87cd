// Package bot initializes and runs the filekeeper process: it wires the
// storage, auth, session, view and routing layers together, starts the
// Telegram update loop and the health endpoint, and handles graceful
// shutdown.
package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filekeeper/internal/bot/auth"
	"github.com/dmitrijs2005/filekeeper/internal/bot/config"
	"github.com/dmitrijs2005/filekeeper/internal/bot/health"
	"github.com/dmitrijs2005/filekeeper/internal/bot/router"
	"github.com/dmitrijs2005/filekeeper/internal/bot/session"
	"github.com/dmitrijs2005/filekeeper/internal/bot/storage"
	"github.com/dmitrijs2005/filekeeper/internal/bot/telegram"
	"github.com/dmitrijs2005/filekeeper/internal/bot/token"
	"github.com/dmitrijs2005/filekeeper/internal/bot/view"
	"github.com/dmitrijs2005/filekeeper/internal/logging"
)

// authStoreKey is the bucket object holding the auth document; it lives under
// the hidden prefix so listings never show it.
const authStoreKey = storage.HiddenPrefix + "auth.json"

type App struct {
	config  *config.Config
	logger  logging.Logger
	adapter *telegram.Adapter
	router  *router.Router
	health  *health.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	repo, err := storage.NewS3Repository(ctx, storage.S3Config{
		RootUser:      cfg.S3RootUser,
		RootPassword:  cfg.S3RootPassword,
		Bucket:        cfg.S3Bucket,
		Region:        cfg.S3Region,
		BaseEndpoint:  cfg.S3BaseEndpoint,
		PublicBaseURL: cfg.S3PublicBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	var authStore auth.Store
	if cfg.AuthStoreKind == "file" {
		authStore, err = auth.NewFileStore(cfg.AuthDir, "auth.json")
		if err != nil {
			return nil, fmt.Errorf("auth store init: %w", err)
		}
	} else {
		authStore = auth.NewBucketStore(repo, authStoreKey)
	}

	gate := auth.NewGate(authStore, cfg.OperatorUsernames, cfg.DefaultSecret, logger)
	sessions := session.NewStore()
	registry := token.NewRegistry(repo)
	adapter, err := telegram.NewAdapter(cfg.TelegramBotToken, logger)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}
	renderer := view.NewRenderer(sessions, adapter, logger)

	rt := router.New(router.Config{
		PageSize:     cfg.PageSize,
		PublicBucket: cfg.PublicBucket,
		PresignTTL:   cfg.PresignTTL,
	}, gate, sessions, registry, repo, renderer, adapter, logger)

	return &App{
		config:  cfg,
		logger:  logger,
		adapter: adapter,
		router:  rt,
		health:  health.NewServer(cfg.HealthAddr, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.health.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.adapter.Run(ctx, app.router)
	}()

	wg.Wait()
}
