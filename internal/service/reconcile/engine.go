// Package reconcile implements the transaction form engine: it decides
// create-vs-edit intent from a seed, derives the amount for yield-based
// income entries, and normalizes the edited form into a persistence-ready
// payload.
package reconcile

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"khetibook/internal/domain/models"
)

// ErrAmountRequired indicates a submission without an amount. It is a
// validation failure surfaced inline to the user, never a system error.
var ErrAmountRequired = errors.New("amount is required")

// Engine holds the reconciliation rules. Each form invocation is scoped to
// one seed; the engine itself carries no per-form state.
type Engine struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine constructs a reconciliation engine.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger, now: time.Now}
}

// Resolve classifies a seed into a form mode and the initial field values.
// The concrete seed type alone decides the mode: prefilled fields on a
// NewTransactionSeed never flip the form into edit mode. Absent fields are
// always tolerated and defaulted; Resolve cannot fail.
func (e *Engine) Resolve(seed models.TransactionSeed) models.FormState {
	state := e.defaults()

	switch s := seed.(type) {
	case nil:
		// Blank create form.
	case models.NewTransactionSeed:
		e.applyPrefill(&state, s)
	case *models.NewTransactionSeed:
		if s != nil {
			e.applyPrefill(&state, *s)
		}
	case models.ExistingTransactionSeed:
		e.applyRecord(&state, s)
	case *models.ExistingTransactionSeed:
		if s != nil {
			e.applyRecord(&state, *s)
		}
	default:
		e.logger.Warn("unknown seed type, opening blank form", zap.Any("seed", seed))
	}

	return state
}

func (e *Engine) defaults() models.FormState {
	return models.FormState{
		Mode:          models.ModeCreate,
		Kind:          models.KindExpense,
		FarmSelection: models.CommonFarmSelection,
		Date:          models.DateOf(e.now()),
		Unit:          models.DefaultUnit,
	}
}

func (e *Engine) applyPrefill(state *models.FormState, seed models.NewTransactionSeed) {
	if seed.Kind != "" {
		state.Kind = seed.Kind
	}
	if seed.FarmID != nil {
		state.FarmSelection = strconv.FormatInt(*seed.FarmID, 10)
	}
	if seed.Category != "" {
		state.Category = seed.Category
	}
	if !seed.Date.IsZero() {
		state.Date = seed.Date
	}
	if seed.Description != "" {
		state.Description = seed.Description
	}
	if seed.Amount != "" {
		state.Amount = seed.Amount
	}
	if seed.Quantity != "" {
		state.Quantity = seed.Quantity
		if seed.Unit != "" {
			state.Unit = seed.Unit
		}
	}
}

func (e *Engine) applyRecord(state *models.FormState, seed models.ExistingTransactionSeed) {
	record := seed.Record

	state.Mode = models.ModeEdit
	state.TransactionID = seed.ID
	if record.Kind != "" {
		state.Kind = record.Kind
	}
	if record.FarmID != nil {
		state.FarmSelection = strconv.FormatInt(*record.FarmID, 10)
	}
	state.Category = record.Category
	if !record.Date.IsZero() {
		state.Date = record.Date
	}
	state.Description = record.Description
	if record.Amount != 0 {
		state.Amount = formatAmount(record.Amount)
	}
	if record.Quantity != nil {
		state.Quantity = strconv.FormatFloat(*record.Quantity, 'f', -1, 64)
		if record.Unit != nil {
			state.Unit = *record.Unit
		}
	}
}

// RecalculateAmount re-derives the amount from quantity and rate. The rule is
// deliberate last-writer-wins in favour of the derived value: while the entry
// is INCOME and both inputs parse as numbers, any manually typed amount is
// overwritten. Clearing either input makes manual edits stick again. The
// caller re-runs this on every quantity, rate or kind change.
func (e *Engine) RecalculateAmount(state models.FormState) models.FormState {
	if state.Kind != models.KindIncome {
		return state
	}
	if state.Quantity == "" || state.Rate == "" {
		return state
	}

	quantity, err := strconv.ParseFloat(state.Quantity, 64)
	if err != nil {
		return state
	}
	rate, err := strconv.ParseFloat(state.Rate, 64)
	if err != nil {
		return state
	}

	state.Amount = formatAmount(quantity * rate)
	return state
}

// BuildPayload normalizes the edited form state into a persistence-ready
// record. The quantity/unit pairing invariant is enforced here, at the
// boundary: both are persisted, or both are null. Building is deterministic;
// identical states produce identical payloads.
func (e *Engine) BuildPayload(state models.FormState) (models.TransactionPayload, error) {
	if state.Amount == "" {
		return models.TransactionPayload{}, ErrAmountRequired
	}

	amount, err := strconv.ParseFloat(state.Amount, 64)
	if err != nil {
		return models.TransactionPayload{}, fmt.Errorf("invalid amount %q: %w", state.Amount, err)
	}

	payload := models.TransactionPayload{
		Kind:        state.Kind,
		Category:    state.Category,
		Amount:      amount,
		Date:        state.Date,
		Description: state.Description,
	}

	if state.FarmSelection != "" && state.FarmSelection != models.CommonFarmSelection {
		farmID, err := strconv.ParseInt(state.FarmSelection, 10, 64)
		if err != nil {
			return models.TransactionPayload{}, fmt.Errorf("invalid farm selection %q: %w", state.FarmSelection, err)
		}
		payload.FarmID = &farmID
	}

	if state.Quantity != "" {
		quantity, err := strconv.ParseFloat(state.Quantity, 64)
		if err != nil {
			return models.TransactionPayload{}, fmt.Errorf("invalid quantity %q: %w", state.Quantity, err)
		}
		unit := state.Unit
		payload.Quantity = &quantity
		payload.Unit = &unit
	}

	return payload, nil
}

// formatAmount renders a monetary value with exactly two decimals, matching
// the ledger display format.
func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}
