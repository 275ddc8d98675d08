// Package reporting captures daily financial snapshots and mirrors the
// transaction history into a bookkeeping spreadsheet. Both jobs read the
// ledger API with the current session credential and skip quietly when the
// user is signed out.
package reporting

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"khetibook/internal/domain/models"
	"khetibook/internal/repository/mongodb"
	"khetibook/internal/repository/sheets"
	"khetibook/internal/service/finance"
	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
)

const (
	transactionsRange = "Transactions!A:I"
	dateLayout        = "2006-01-02"
)

// Service exposes the scheduled reporting jobs.
type Service struct {
	ledger    ledger.API
	sessions  *session.Manager
	snapshots mongodb.Repository
	sheet     sheets.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewService wires a new reporting service instance. The snapshot and sheet
// repositories may be nil when their subsystems are not configured.
func NewService(client ledger.API, sessions *session.Manager, snapshots mongodb.Repository, sheet sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger:    client,
		sessions:  sessions,
		snapshots: snapshots,
		sheet:     sheet,
		logger:    logger,
		now:       time.Now,
	}
}

// CaptureDailySnapshot summarizes the full transaction set and stores the
// result as a dated snapshot.
func (s *Service) CaptureDailySnapshot(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}

	sess := s.sessions.Current()
	if !sess.Active() {
		s.logger.Warn("skipping snapshot, no active session")
		return session.ErrNotSignedIn
	}

	txs, err := s.ledger.ListTransactions(ctx, sess.Token)
	if err != nil {
		return fmt.Errorf("load transactions for snapshot: %w", err)
	}

	summary := finance.Summarize(txs)
	now := s.now().UTC()

	snapshot := models.DailySnapshot{
		Date:             models.DateOf(now).Time,
		TotalRevenue:     summary.TotalRevenue,
		TotalExpense:     summary.TotalExpense,
		Profit:           summary.Profit,
		TransactionCount: len(txs),
		CapturedAt:       now,
	}

	if err := s.snapshots.SaveSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	s.logger.Info("daily snapshot captured",
		zap.Float64("revenue", summary.TotalRevenue),
		zap.Float64("expense", summary.TotalExpense),
		zap.Int("transactions", len(txs)))
	return nil
}

// ExportTransactions appends any transactions missing from the spreadsheet.
// Already-exported identifiers are read back from the sheet so reruns do not
// duplicate rows.
func (s *Service) ExportTransactions(ctx context.Context) (int, error) {
	if s.sheet == nil {
		return 0, nil
	}

	sess := s.sessions.Current()
	if !sess.Active() {
		s.logger.Warn("skipping export, no active session")
		return 0, session.ErrNotSignedIn
	}

	txs, err := s.ledger.ListTransactions(ctx, sess.Token)
	if err != nil {
		return 0, fmt.Errorf("load transactions for export: %w", err)
	}

	exported, err := s.exportedIDs(ctx)
	if err != nil {
		return 0, err
	}

	var rows [][]interface{}
	for _, tx := range txs {
		if _, done := exported[tx.ID]; done {
			continue
		}
		rows = append(rows, transactionRow(tx))
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.sheet.AppendRows(ctx, transactionsRange, rows); err != nil {
		return 0, fmt.Errorf("append transaction rows: %w", err)
	}

	s.logger.Info("transactions exported", zap.Int("rows", len(rows)))
	return len(rows), nil
}

func (s *Service) exportedIDs(ctx context.Context) (map[int64]struct{}, error) {
	rows, err := s.sheet.ReadRange(ctx, transactionsRange)
	if err != nil {
		return nil, fmt.Errorf("read exported rows: %w", err)
	}

	ids := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		id, err := strconv.ParseInt(fmt.Sprint(row[0]), 10, 64)
		if err != nil {
			// Header or hand-edited row.
			continue
		}
		ids[id] = struct{}{}
	}
	return ids, nil
}

func transactionRow(tx models.Transaction) []interface{} {
	farm := "common"
	if tx.FarmID != nil {
		farm = strconv.FormatInt(*tx.FarmID, 10)
	}

	quantity := ""
	unit := ""
	if tx.Quantity != nil {
		quantity = strconv.FormatFloat(*tx.Quantity, 'f', -1, 64)
	}
	if tx.Unit != nil {
		unit = *tx.Unit
	}

	return []interface{}{
		tx.ID,
		tx.Date.Format(dateLayout),
		string(tx.Kind),
		farm,
		tx.Category,
		tx.Amount,
		quantity,
		unit,
		tx.Description,
	}
}
