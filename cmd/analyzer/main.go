package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/camuig/trader-analyst/internal/analyzer"
	"github.com/camuig/trader-analyst/internal/config"
	"github.com/camuig/trader-analyst/internal/domain"
	"github.com/camuig/trader-analyst/internal/logger"
	"github.com/camuig/trader-analyst/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	txPath := flag.String("transactions", "", "transactions CSV (overrides config)")
	profilesPath := flag.String("profiles", "", "trader profiles CSV (overrides config)")
	outPath := flag.String("out", "", "knowledge store JSON to write (overrides config)")
	quiet := flag.Bool("quiet", false, "do not print the per-trader table")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if *txPath != "" {
		cfg.Data.TransactionsFile = *txPath
	}
	if *profilesPath != "" {
		cfg.Data.ProfilesFile = *profilesPath
	}
	if *outPath != "" {
		cfg.Data.KnowledgeFile = *outPath
	}

	log := logger.NewWithWriter(cfg.Logging.Level, os.Stderr)

	repo, err := storage.OpenRepository(cfg.Storage.DSN)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	run := &storage.AnalysisRun{
		TransactionsFile: cfg.Data.TransactionsFile,
		ProfilesFile:     cfg.Data.ProfilesFile,
		OutputFile:       cfg.Data.KnowledgeFile,
	}

	records, summary, err := analyze(cfg, log)
	if err != nil {
		run.Error = err.Error()
		saveRun(repo, run, log)
		fmt.Fprintf(os.Stderr, "analysis error: %v\n", err)
		os.Exit(1)
	}

	run.TradersAnalyzed = summary.Traders
	run.TradersSkipped = len(summary.Skipped)
	run.TradesMatched = summary.TradesMatched
	saveRun(repo, run, log)

	if !*quiet {
		printRecords(records)
	}
	fmt.Printf("Analyzed %d traders (%d skipped, %d trades) -> %s\n",
		summary.Traders, len(summary.Skipped), summary.TradesMatched, cfg.Data.KnowledgeFile)
	if len(summary.Skipped) > 0 {
		fmt.Printf("Skipped (no matched trades): %s\n", strings.Join(summary.Skipped, ", "))
	}
}

func analyze(cfg *config.Config, log *logger.Logger) (map[string]domain.Record, analyzer.Summary, error) {
	a, err := analyzer.Open(cfg.Data.TransactionsFile, cfg.Data.ProfilesFile, log)
	if err != nil {
		return nil, analyzer.Summary{}, err
	}
	records, summary, err := a.GenerateReport()
	if err != nil {
		return nil, summary, fmt.Errorf("generate report: %w", err)
	}
	if err := analyzer.WriteStore(cfg.Data.KnowledgeFile, records); err != nil {
		return nil, summary, err
	}
	return records, summary, nil
}

func saveRun(repo *storage.Repository, run *storage.AnalysisRun, log *logger.Logger) {
	if repo == nil {
		return
	}
	if err := repo.SaveAnalysisRun(run); err != nil {
		log.Error("failed to save analysis run", "error", err)
	}
}

func printRecords(records map[string]domain.Record) {
	ids := make([]string, 0, len(records))
	for id := range records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("ID", "Name", "Style", "Trades", "Win %", "P&L", "Sharpe", "MDD %", "Hold d", "Active")
	for _, id := range ids {
		r := records[id]
		p := r.Performance
		table.Append(
			id,
			r.Profile.Name,
			r.Profile.TradingStyle,
			fmt.Sprintf("%d", p.TotalTrades),
			fmt.Sprintf("%.2f", p.WinRate),
			fmt.Sprintf("%.2f", p.TotalPnL),
			fmt.Sprintf("%.2f", p.SharpeRatio),
			fmt.Sprintf("%.2f", p.MaxDrawdownPct),
			fmt.Sprintf("%.1f", p.AvgHoldDays),
			fmt.Sprintf("%dh %s", r.Pattern.MostActiveHour, r.Pattern.MostActiveDay),
		)
	}
	table.Render()
}
