// Package finance reconciles per-transaction amounts into revenue, expense
// and profit totals. The aggregation is pure and stateless: identical inputs
// always yield identical outputs, so every view recomputes from scratch
// instead of caching.
package finance

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"khetibook/internal/domain/models"
	"khetibook/pkg/clients/ledger"
)

// SumByKind totals the amounts of one transaction kind. Amounts are plain
// sums; the persistence layer guarantees numeric values.
func SumByKind(txs []models.Transaction, kind models.TransactionKind) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Kind == kind {
			total += tx.Amount
		}
	}
	return total
}

// Summarize folds a transaction set into its financial summary.
func Summarize(txs []models.Transaction) models.FinancialSummary {
	revenue := SumByKind(txs, models.KindIncome)
	expense := SumByKind(txs, models.KindExpense)
	return models.FinancialSummary{
		TotalRevenue: revenue,
		TotalExpense: expense,
		Profit:       revenue - expense,
	}
}

// Service fetches scoped transaction sets from the ledger API and aggregates
// them locally, so the profit = revenue - expense invariant is owned here.
type Service struct {
	ledger ledger.API
	logger *zap.Logger
}

// NewService wires a new finance service instance.
func NewService(client ledger.API, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: client, logger: logger}
}

// OverallSummary aggregates every transaction regardless of scope.
func (s *Service) OverallSummary(ctx context.Context, token string) (models.FinancialSummary, error) {
	txs, err := s.ledger.ListTransactions(ctx, token)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("load transactions: %w", err)
	}
	return Summarize(txs), nil
}

// FarmSummary aggregates the transactions owned by one farm.
func (s *Service) FarmSummary(ctx context.Context, token string, farmID int64) (models.FinancialSummary, error) {
	txs, err := s.ledger.ListFarmTransactions(ctx, token, farmID)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("load farm transactions: %w", err)
	}
	return Summarize(txs), nil
}

// CommonSummary aggregates the shared entries with no owning farm.
func (s *Service) CommonSummary(ctx context.Context, token string) (models.FinancialSummary, error) {
	txs, err := s.ledger.ListCommonTransactions(ctx, token)
	if err != nil {
		return models.FinancialSummary{}, fmt.Errorf("load common transactions: %w", err)
	}
	return Summarize(txs), nil
}
