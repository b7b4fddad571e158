package analyzer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/camuig/trader-analyst/internal/domain"
	"github.com/camuig/trader-analyst/internal/logger"
)

// Analyzer is the offline batch job turning raw legs into knowledge-store records.
type Analyzer struct {
	transactions []domain.Transaction
	profiles     map[string]domain.Profile
	logger       *logger.Logger
}

// Summary describes one report run.
type Summary struct {
	Traders       int
	Skipped       []string // traders with no matched trade
	TradesMatched int
}

func NewAnalyzer(txs []domain.Transaction, profiles map[string]domain.Profile, log *logger.Logger) *Analyzer {
	return &Analyzer{transactions: txs, profiles: profiles, logger: log}
}

// Open loads both input tables. A missing file is a configuration error.
func Open(transactionsPath, profilesPath string, log *logger.Logger) (*Analyzer, error) {
	txs, err := LoadTransactions(transactionsPath)
	if err != nil {
		return nil, err
	}
	profiles, err := LoadProfiles(profilesPath)
	if err != nil {
		return nil, err
	}
	log.Info("input loaded", "transactions", len(txs), "profiles", len(profiles))
	return NewAnalyzer(txs, profiles, log), nil
}

// TraderIDs lists traders in order of first appearance in the log.
func (a *Analyzer) TraderIDs() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, tx := range a.transactions {
		if !seen[tx.TraderID] {
			seen[tx.TraderID] = true
			ids = append(ids, tx.TraderID)
		}
	}
	return ids
}

func (a *Analyzer) legs(traderID string) []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range a.transactions {
		if tx.TraderID == traderID {
			out = append(out, tx)
		}
	}
	return out
}

// TraderMetrics reconstructs one trader's trades and aggregates them.
func (a *Analyzer) TraderMetrics(traderID string) (domain.Performance, []domain.Trade, error) {
	trades := MatchTrades(a.legs(traderID))
	perf, err := ComputePerformance(traderID, trades)
	return perf, trades, err
}

// TraderPattern computes the activity pattern for one trader.
func (a *Analyzer) TraderPattern(traderID string) domain.Pattern {
	return AnalyzePatterns(traderID, a.legs(traderID))
}

// GenerateReport builds one record per trader with at least one matched trade.
func (a *Analyzer) GenerateReport() (map[string]domain.Record, Summary, error) {
	results := make(map[string]domain.Record)
	var summary Summary

	for _, id := range a.TraderIDs() {
		profile, ok := a.profiles[id]
		if !ok {
			return nil, summary, fmt.Errorf("no profile for trader %s", id)
		}

		perf, trades, err := a.TraderMetrics(id)
		if errors.Is(err, ErrInsufficientData) {
			a.logger.Debug("trader skipped", "trader_id", id, "reason", err)
			summary.Skipped = append(summary.Skipped, id)
			continue
		}
		if err != nil {
			return nil, summary, fmt.Errorf("metrics for %s: %w", id, err)
		}

		results[id] = domain.Record{
			Profile:     profile,
			Performance: perf,
			Pattern:     a.TraderPattern(id),
		}
		summary.TradesMatched += len(trades)
	}
	summary.Traders = len(results)

	a.logger.Info("analysis complete",
		"traders", summary.Traders,
		"skipped", len(summary.Skipped),
		"trades", summary.TradesMatched)
	return results, summary, nil
}

// EncodeStore writes records as indented UTF-8 JSON keyed by trader ID.
func EncodeStore(w io.Writer, records map[string]domain.Record) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encode store: %w", err)
	}
	return nil
}

// WriteStore replaces the knowledge store at path.
func WriteStore(path string, records map[string]domain.Record) error {
	var buf bytes.Buffer
	if err := EncodeStore(&buf, records); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}
