package domain

import "time"

const (
	SideBuy  = "Buy"
	SideSell = "Sell"
)

// Transaction is one buy or sell leg from the raw log.
type Transaction struct {
	TraderID    string
	Timestamp   time.Time
	Symbol      string
	Side        string
	Quantity    int64
	Price       float64
	Commission  float64
	TotalAmount float64 // cash effect including commission
}

// Trade is a reconstructed round trip: the i-th buy paired with the i-th sell.
type Trade struct {
	Symbol    string
	BuyDate   time.Time
	SellDate  time.Time
	BuyPrice  float64
	SellPrice float64
	Quantity  int64
	PnL       float64
	PnLPct    float64
	HoldDays  int
}
