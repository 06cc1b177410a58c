package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	appcfg "github.com/park285/chess-coach-go/internal/config"
	"github.com/park285/chess-coach-go/internal/httpapi"
	"github.com/park285/chess-coach-go/internal/library"
	"github.com/park285/chess-coach-go/internal/msgcat"
	"github.com/park285/chess-coach-go/internal/obslog"
	"github.com/park285/chess-coach-go/internal/webui"
	"github.com/park285/chess-coach-go/internal/welcome"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}

	lib, err := loadLibrary(cfg)
	if err != nil {
		log.Fatalf("library load error: %v", err)
	}

	cat, err := msgcat.New(cfg.MsgCatDir)
	if err != nil {
		log.Fatalf("message catalog error: %v", err)
	}

	stores, closeStores, err := buildStoreFactory(cfg)
	if err != nil {
		log.Fatalf("store init error: %v", err)
	}

	var consumer welcome.Consumer
	var repo *welcome.Repository
	if cfg.DatabaseURL != "" {
		repo, err = welcome.NewRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("profile repository init error: %v", err)
		}
		consumer = repo
	}

	api := httpapi.NewServer(lib, cat, cfg.BoardSquareSize)
	ws := webui.NewServer(cat, stores, consumer, cfg.WelcomeTeardownDelay)

	go func() {
		if err := api.ListenAndServe(cfg.HTTPAddr); err != nil {
			obslog.L().Fatal("http_serve_error", zap.Error(err))
		}
	}()
	go func() {
		if err := ws.ListenAndServe(cfg.WSAddr); err != nil {
			obslog.L().Fatal("ws_serve_error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	obslog.L().Info("shutdown_begin")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = api.Shutdown()
	_ = ws.Shutdown(shutdownCtx)
	closeStores()
	if repo != nil {
		_ = repo.Close()
	}
	obslog.L().Info("shutdown_done")
}

func loadLibrary(cfg *appcfg.AppConfig) (*library.Library, error) {
	if cfg.LibraryPath != "" {
		return library.LoadFromPath(cfg.LibraryPath)
	}
	return library.Load()
}

// buildStoreFactory picks Redis when configured, otherwise a per-user
// in-memory store shared across reconnects within the process.
func buildStoreFactory(cfg *appcfg.AppConfig) (webui.StoreFactory, func(), error) {
	if cfg.RedisURL != "" {
		base, err := welcome.NewRedisStore(cfg.RedisURL, cfg.WelcomeKeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		factory := func(userID string) welcome.Store {
			return base.WithSuffix(userID)
		}
		return factory, func() { _ = base.Close() }, nil
	}

	var mu sync.Mutex
	byUser := make(map[string]*welcome.MemoryStore)
	factory := func(userID string) welcome.Store {
		mu.Lock()
		defer mu.Unlock()
		s, ok := byUser[userID]
		if !ok {
			s = welcome.NewMemoryStore()
			byUser[userID] = s
		}
		return s
	}
	return factory, func() {}, nil
}
