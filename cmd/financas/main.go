package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"financas/internal/amqp"
	"financas/internal/auth"
	"financas/internal/config"
	"financas/internal/gemini"
	apphttp "financas/internal/http"
	applog "financas/internal/log"
	"financas/internal/services"
	"financas/internal/store"
	"financas/internal/store/memory"
	mongostore "financas/internal/store/mongo"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Choose data backend.
	var (
		transactions store.TransactionStore
		users        store.UserStore
	)
	switch cfg.DataBackend {
	case "mongo":
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		ms, err := mongostore.New(connectCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			logger.Error("Failed to connect to MongoDB", "error", err, "db", cfg.MongoDB)
			os.Exit(1)
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ms.Close(closeCtx); err != nil {
				logger.Warn("MongoDB disconnect error", "error", err)
			}
		}()
		transactions, users = ms, ms
		logger.Info("Initialized MongoDB backend", "db", cfg.MongoDB)
	default:
		mem := memory.New()
		transactions, users = mem, mem
		logger.Info("Initialized memory backend")
	}

	// Optional AMQP event publishing.
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			defer client.Close()
			events = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	}

	// Optional tip elaboration.
	var elaborator services.TipElaborator
	if cfg.GeminiAPIKey != "" {
		elaborator = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout)
		logger.Info("Tip elaboration enabled", "model", cfg.GeminiModel)
	}

	ledger := services.NewLedgerService(transactions, events)
	advisor := services.NewAdvisorService(transactions, elaborator, cfg.GeminiTimeout)
	sessions := auth.NewManager(users, cfg.JWTSecret, cfg.TokenTTL)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, advisor, sessions)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting financas server", "port", cfg.Port, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
