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

	"github.com/zhouzirui/startup-chat/backend/internal/config"
	"github.com/zhouzirui/startup-chat/backend/internal/database"
	"github.com/zhouzirui/startup-chat/backend/internal/handler"
	handlerChat "github.com/zhouzirui/startup-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/startup-chat/backend/internal/service/ai"
	"github.com/zhouzirui/startup-chat/backend/internal/service/chat"
	"github.com/zhouzirui/startup-chat/backend/internal/service/retention"
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

	// Initialize conversation store
	var (
		store chat.Store
		db    *database.DB
	)
	if cfg.Mongo.Enabled() {
		db, err = database.Connect(ctx, cfg.Mongo)
		if err != nil {
			log.Fatalf("failed to connect to MongoDB: %v", err)
		}
		store = chat.NewMongoStore(db.Conversations())
	} else {
		log.Println("MONGODB_URI 未配置，使用内存会话存储（重启后数据丢失）")
		store = chat.NewMemoryStore()
	}

	// Initialize model gateway
	var generator handlerChat.Generator
	profile := config.DefaultModelProfile()
	aiService, err := ai.NewService(ctx, cfg.AI, profile)
	if err != nil {
		log.Printf("warning: failed to initialize AI service: %v", err)
		log.Println("continuing without AI functionality - 请检查 GEMINI_API_KEY 等模型相关环境变量")
		generator = ai.Unavailable{Reason: err}
	} else {
		log.Printf("AI service initialized successfully provider=%s model=%s", cfg.AI.Provider, cfg.AI.ModelName(profile))
		generator = aiService
	}

	scheduler := retention.NewSchedulerWithPolicy(store, cfg.Retention.MaxAge, cfg.Retention.Interval)

	router := handler.NewRouter(cfg.Server.FrontendURL, generator, store)

	// Sweeps once now, then every interval until shutdown.
	scheduler.Start(ctx)

	startServer(ctx, cfg.Server, router)

	scheduler.Stop()

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.Close(closeCtx); err != nil {
		log.Printf("warning: %v", err)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Server running on %s", addr)
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
