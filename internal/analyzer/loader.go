package analyzer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/camuig/trader-analyst/internal/domain"
)

var transactionColumns = []string{
	"trader_id", "date", "time", "symbol", "side", "quantity", "price", "commission", "total_amount",
}

var profileColumns = []string{
	"trader_id", "name", "trading_style", "risk_tolerance", "years_experience",
}

// csvTable is a parsed CSV file addressed by header name.
type csvTable struct {
	index map[string]int
	rows  [][]string
}

func (t *csvTable) get(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readTable(path string, required []string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return parseTable(f, required)
}

func parseTable(r io.Reader, required []string) (*csvTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &csvTable{index: make(map[string]int, len(header))}
	for i, h := range header {
		// utf-8-sig files carry a BOM on the first column.
		h = strings.TrimPrefix(h, "\ufeff")
		t.index[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := t.index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}

	t.rows, err = cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return t, nil
}

// LoadTransactions reads the transaction table at path.
func LoadTransactions(path string) ([]domain.Transaction, error) {
	t, err := readTable(path, transactionColumns)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	txs, err := t.transactions()
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return txs, nil
}

// ParseTransactions reads a transaction table from r.
func ParseTransactions(r io.Reader) ([]domain.Transaction, error) {
	t, err := parseTable(r, transactionColumns)
	if err != nil {
		return nil, fmt.Errorf("parse transactions: %w", err)
	}
	return t.transactions()
}

func (t *csvTable) transactions() ([]domain.Transaction, error) {
	txs := make([]domain.Transaction, 0, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		ts, err := parseTimestamp(t.get(row, "date"), t.get(row, "time"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		qty, err := strconv.ParseInt(t.get(row, "quantity"), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: quantity: %w", line, err)
		}
		price, err := parseMoney(t.get(row, "price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: price: %w", line, err)
		}
		commission, err := parseMoney(t.get(row, "commission"))
		if err != nil {
			return nil, fmt.Errorf("line %d: commission: %w", line, err)
		}
		total, err := parseMoney(t.get(row, "total_amount"))
		if err != nil {
			return nil, fmt.Errorf("line %d: total_amount: %w", line, err)
		}

		txs = append(txs, domain.Transaction{
			TraderID:    t.get(row, "trader_id"),
			Timestamp:   ts,
			Symbol:      t.get(row, "symbol"),
			Side:        t.get(row, "side"),
			Quantity:    qty,
			Price:       price,
			Commission:  commission,
			TotalAmount: total,
		})
	}
	return txs, nil
}

// LoadProfiles reads the profile table at path, keyed by trader ID.
func LoadProfiles(path string) (map[string]domain.Profile, error) {
	t, err := readTable(path, profileColumns)
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	profiles, err := t.profiles()
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	return profiles, nil
}

// ParseProfiles reads a profile table from r.
func ParseProfiles(r io.Reader) (map[string]domain.Profile, error) {
	t, err := parseTable(r, profileColumns)
	if err != nil {
		return nil, fmt.Errorf("parse profiles: %w", err)
	}
	return t.profiles()
}

func (t *csvTable) profiles() (map[string]domain.Profile, error) {
	profiles := make(map[string]domain.Profile, len(t.rows))
	for n, row := range t.rows {
		line := n + 2
		years, err := strconv.Atoi(t.get(row, "years_experience"))
		if err != nil {
			return nil, fmt.Errorf("line %d: years_experience: %w", line, err)
		}
		var account float64
		if v := t.get(row, "account_size"); v != "" {
			if account, err = parseMoney(v); err != nil {
				return nil, fmt.Errorf("line %d: account_size: %w", line, err)
			}
		}

		p := domain.Profile{
			TraderID:         t.get(row, "trader_id"),
			Name:             t.get(row, "name"),
			JoinDate:         t.get(row, "join_date"),
			TradingStyle:     t.get(row, "trading_style"),
			RiskTolerance:    t.get(row, "risk_tolerance"),
			PreferredSectors: t.get(row, "preferred_sectors"),
			YearsExperience:  years,
			Education:        t.get(row, "education"),
			Certifications:   t.get(row, "certifications"),
			AccountSize:      account,
			PerformanceGoal:  t.get(row, "performance_goal"),
		}
		if _, dup := profiles[p.TraderID]; !dup {
			profiles[p.TraderID] = p
		}
	}
	return profiles, nil
}

func parseTimestamp(date, clock string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if ts, err := time.Parse(layout, date+" "+clock); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q %q", date, clock)
}

func parseMoney(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
