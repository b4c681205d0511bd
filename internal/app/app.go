package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	httpX "github.com/datapar/analysis-backend/internal/http"
	"github.com/datapar/analysis-backend/internal/platform/docstore"
	"github.com/datapar/analysis-backend/internal/platform/logger"
	"github.com/datapar/analysis-backend/internal/platform/objstore"
)

type App struct {
	Log      *logger.Logger
	Store    *docstore.Store
	Server   *httpX.Server
	Cfg      Config
	Models   Models
	Services Services
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Sync()
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	store, err := docstore.Open(cfg.DBPath, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open document store: %w", err)
	}

	objects, err := objstore.New(log, cfg.ObjectStore)
	if err != nil {
		// Uploads will be persisted as failed records until S3 is reachable.
		log.Warn("Object store init failed", "error", err)
	}

	modelset := wireModels(store, log)
	serviceset := wireServices(log, cfg, modelset, objects)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	server := wireRouter(log, handlerset, middleware)

	return &App{
		Log:      log,
		Store:    store,
		Server:   server,
		Cfg:      cfg,
		Models:   modelset,
		Services: serviceset,
	}, nil
}

func (a *App) Run(addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("Closing document store failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
