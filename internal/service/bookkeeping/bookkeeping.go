// Package bookkeeping orchestrates the transaction form against the ledger
// API: it opens forms through the reconciliation engine and dispatches
// submissions as inserts or full replacements.
package bookkeeping

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"khetibook/internal/domain/models"
	"khetibook/internal/service/reconcile"
	"khetibook/pkg/clients/ledger"
)

// Service implements the form workflow.
type Service struct {
	ledger ledger.API
	engine *reconcile.Engine
	logger *zap.Logger
}

// NewService wires a new bookkeeping service instance.
func NewService(client ledger.API, engine *reconcile.Engine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: client, engine: engine, logger: logger}
}

// OpenCreateForm resolves a create form, optionally prefilled by a seed.
func (s *Service) OpenCreateForm(seed *models.NewTransactionSeed) models.FormState {
	if seed == nil {
		return s.engine.Resolve(nil)
	}
	return s.engine.Resolve(*seed)
}

// OpenEditForm loads the persisted record and resolves an edit form over it.
func (s *Service) OpenEditForm(ctx context.Context, token string, transactionID int64) (models.FormState, error) {
	record, err := s.findTransaction(ctx, token, transactionID)
	if err != nil {
		return models.FormState{}, err
	}
	return s.engine.Resolve(models.ExistingTransactionSeed{ID: transactionID, Record: record}), nil
}

// Recalculate re-derives the amount from quantity and rate.
func (s *Service) Recalculate(state models.FormState) models.FormState {
	return s.engine.RecalculateAmount(state)
}

// Submit normalizes the form state and dispatches it. The create-vs-edit
// decision was fixed when the form opened; editing fields that resemble
// another record never changes it. Validation failures return before any
// ledger call is attempted.
func (s *Service) Submit(ctx context.Context, token string, state models.FormState) (models.Transaction, error) {
	payload, err := s.engine.BuildPayload(state)
	if err != nil {
		return models.Transaction{}, err
	}

	if state.Mode == models.ModeEdit {
		tx, err := s.ledger.UpdateTransaction(ctx, token, state.TransactionID, payload)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("update transaction %d: %w", state.TransactionID, err)
		}
		s.logger.Info("transaction replaced", zap.Int64("id", tx.ID), zap.String("kind", string(tx.Kind)))
		return tx, nil
	}

	tx, err := s.ledger.CreateTransaction(ctx, token, payload)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}
	s.logger.Info("transaction recorded", zap.Int64("id", tx.ID), zap.String("kind", string(tx.Kind)))
	return tx, nil
}

// findTransaction locates a record by identifier. The ledger API has no
// single-record endpoint, so the full list is scanned.
func (s *Service) findTransaction(ctx context.Context, token string, id int64) (models.Transaction, error) {
	txs, err := s.ledger.ListTransactions(ctx, token)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("load transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return models.Transaction{}, fmt.Errorf("transaction %d not found", id)
}
