package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/camuig/trader-analyst/internal/ai"
	"github.com/camuig/trader-analyst/internal/chatbot"
	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/knowledge"
	"github.com/camuig/trader-analyst/internal/logger"
	"github.com/camuig/trader-analyst/internal/shell"
	"github.com/camuig/trader-analyst/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	storePath := flag.String("store", "", "knowledge store JSON (overrides config)")
	mock := flag.Bool("mock", false, "answer with a placeholder instead of calling the completion service")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *storePath != "" {
		cfg.Data.KnowledgeFile = *storePath
	}
	if *mock {
		cfg.LLM.AllowMock = true
	}
	if err := cfg.RequireLLM(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// stdout belongs to the conversation
	log := logger.NewWithWriter(cfg.Logging.Level, os.Stderr)

	kb, err := knowledge.Load(cfg.Data.KnowledgeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "knowledge store error: %v\n", err)
		os.Exit(1)
	}

	repo, err := storage.OpenRepository(cfg.Storage.DSN)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	observers := chatbot.Observers{chatbot.NewLogObserver(log)}
	if repo != nil {
		observers = append(observers, storage.NewQueryObserver(repo, log))
	}

	var completer chatbot.Completer = ai.Mock{}
	mode := "mock"
	if cfg.HasLLM() && !*mock {
		completer = ai.NewClient(cfg, log)
		mode = cfg.LLM.Model
	}

	bot := chatbot.New(kb, completer, observers, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sh := shell.New(bot, shell.Status{
		Traders:   kb.Len(),
		StorePath: cfg.Data.KnowledgeFile,
		Mode:      mode,
	}, os.Stdin, os.Stdout, log)

	if err := sh.Run(ctx); err != nil {
		log.Error("shell error", "error", err)
		os.Exit(1)
	}
}
