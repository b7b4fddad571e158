package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camuig/trader-analyst/internal/ai"
	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/knowledge"
	"github.com/camuig/trader-analyst/internal/logger"
	"github.com/camuig/trader-analyst/internal/storage"
	"github.com/camuig/trader-analyst/internal/telegram"
	"github.com/camuig/trader-analyst/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	mock := flag.Bool("mock", false, "answer with a placeholder instead of calling the completion service")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *mock {
		cfg.LLM.AllowMock = true
	}
	if err := cfg.RequireLLM(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Init logger
	log := logger.New(cfg.Logging.Level)

	live := cfg.HasLLM() && !*mock
	mode := "mock"
	if live {
		mode = cfg.LLM.Model
	}
	log.Info("starting trader-analyst", "mode", mode)

	kb, err := knowledge.Load(cfg.Data.KnowledgeFile)
	if err != nil {
		log.Error("knowledge store load failed", "error", err)
		os.Exit(1)
	}
	log.Info("knowledge store loaded", "traders", kb.Len(), "path", cfg.Data.KnowledgeFile)

	// Init database
	repo, err := storage.OpenRepository(cfg.Storage.DSN)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	// Context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init services
	var completer chatbot.Completer = ai.Mock{}
	if live {
		completer = ai.NewClient(cfg, log)
	}
	observers := chatbot.Observers{chatbot.NewLogObserver(log)}
	if repo != nil {
		observers = append(observers, storage.NewQueryObserver(repo, log))
	}
	bot := chatbot.New(kb, completer, observers, log)

	notifier := telegram.NewNotifier(cfg, log)
	frontend := telegram.NewFrontend(notifier, bot, log)
	webServer := web.NewServer(bot, repo, cfg, log)

	// Start telegram polling in goroutine
	go frontend.Run(ctx)

	// Start web server in goroutine
	go func() {
		if err := webServer.Start(); err != nil {
			log.Error("web server error", "error", err)
		}
	}()

	notifier.NotifyStarted(kb.Len(), mode)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	// Graceful shutdown
	cancel() // stop telegram polling

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := webServer.Shutdown(shutdownCtx); err != nil {
		log.Error("web server shutdown error", "error", err)
	}

	notifier.NotifyStatus("trader-analyst stopped")
	log.Info("trader-analyst stopped")
}
