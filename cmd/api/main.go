package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/zenstellar/backend/internal/catalog"
	"github.com/zhouzirui/zenstellar/backend/internal/config"
	"github.com/zhouzirui/zenstellar/backend/internal/handler"
	"github.com/zhouzirui/zenstellar/backend/internal/logging"
	"github.com/zhouzirui/zenstellar/backend/internal/model/zodiac"
	"github.com/zhouzirui/zenstellar/backend/internal/provider"
	"github.com/zhouzirui/zenstellar/backend/internal/service/chat"
	"github.com/zhouzirui/zenstellar/backend/internal/service/sage"
	"github.com/zhouzirui/zenstellar/backend/internal/service/zen"
	"github.com/zhouzirui/zenstellar/backend/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logCloser, err := logging.Setup(cfg.Log)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, os.Stdout)
	if err != nil {
		log.Printf("warning: failed to initialize telemetry: %v", err)
		shutdownTelemetry = func(context.Context) error { return nil }
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Printf("warning: telemetry shutdown: %v", err)
		}
	}()

	cat := catalog.Default()
	if cfg.Catalog.File != "" {
		cat, err = catalog.Load(cfg.Catalog.File)
		if err != nil {
			log.Fatalf("failed to load catalog: %v", err)
		}
		log.Printf("catalog loaded from %s: %d prompts, %d songs", cfg.Catalog.File, len(cat.Prompts), len(cat.Songs))
	}

	// 凭证缺失不是启动错误：对话与运势会返回固定的提示文本。
	aiClient := provider.NewClient(cfg.AI, cat)
	if cfg.AI.Enabled() {
		log.Printf("AI provider %s configured, backend will connect on first use", cfg.AI.Provider)
	} else {
		log.Println("AI 凭证未配置，对话、运势与灵感功能将返回提示文本")
	}

	zodiacStore := zodiac.NewMemoryStore(zodiac.Seed())
	chatService := chat.NewService()
	sageService := sage.New(aiClient, chatService)
	zenService := zen.NewService(cat.Songs)

	router := handler.NewRouter(zodiacStore, chatService, sageService, aiClient, zenService)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ZenStellar backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
