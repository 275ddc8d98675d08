package models

import "time"

// FinancialSummary reconciles per-transaction amounts into totals. It is
// derived on demand and never cached beyond a single view.
type FinancialSummary struct {
	TotalRevenue float64 `json:"totalRevenue"`
	TotalExpense float64 `json:"totalExpense"`
	Profit       float64 `json:"profit"`
}

// DailySnapshot is a point-in-time capture of the financial summary stored in
// MongoDB by the reporting job. Snapshots are historical records, not a cache.
type DailySnapshot struct {
	Date             time.Time `bson:"date" json:"date"`
	TotalRevenue     float64   `bson:"total_revenue" json:"totalRevenue"`
	TotalExpense     float64   `bson:"total_expense" json:"totalExpense"`
	Profit           float64   `bson:"profit" json:"profit"`
	TransactionCount int       `bson:"transaction_count" json:"transactionCount"`
	CapturedAt       time.Time `bson:"captured_at" json:"capturedAt"`
}
