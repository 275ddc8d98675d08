package models

// TransactionKind identifies the money direction of a ledger entry.
type TransactionKind string

const (
	KindIncome  TransactionKind = "INCOME"
	KindExpense TransactionKind = "EXPENSE"
)

// Transaction is a persisted bookkeeping entry as exchanged with the ledger API.
// A nil FarmID marks a common entry shared across all farms. Unit is set if and
// only if Quantity is set.
type Transaction struct {
	ID          int64           `json:"id,omitempty"`
	FarmID      *int64          `json:"farmId"`
	Kind        TransactionKind `json:"type"`
	Category    string          `json:"category"`
	Date        Date            `json:"date"`
	Description string          `json:"description,omitempty"`
	Amount      float64         `json:"amount"`
	Quantity    *float64        `json:"quantity"`
	Unit        *string         `json:"unit"`
}

// TransactionPayload is the persistence-ready record produced by the payload
// builder. It never carries an identifier; create-vs-update dispatch is decided
// by the form mode, not by the payload.
type TransactionPayload struct {
	FarmID      *int64          `json:"farmId"`
	Kind        TransactionKind `json:"type"`
	Category    string          `json:"category"`
	Amount      float64         `json:"amount"`
	Date        Date            `json:"date"`
	Description string          `json:"description"`
	Quantity    *float64        `json:"quantity"`
	Unit        *string         `json:"unit"`
}

// ExpenseCategories is the fixed vocabulary offered for EXPENSE entries.
var ExpenseCategories = []string{"Diesel", "Seed", "Fertilizer", "Labor", "Pesticide", "Repair", "Electricity", "Other"}

// IncomeCategories is the fixed vocabulary offered for INCOME entries.
var IncomeCategories = []string{"Grain (Anaaj)", "Fodder (Bhusa)", "Vegetables", "Fruits", "Other"}

// Units lists the yield unit symbols. DefaultUnit is preselected on new forms.
var Units = []string{"Quintal", "Kg", "Ton"}

// DefaultUnit is the unit preselected when a form opens without a seeded unit.
const DefaultUnit = "Quintal"

// CategoriesFor returns the category vocabulary for a kind.
func CategoriesFor(kind TransactionKind) []string {
	if kind == KindIncome {
		return IncomeCategories
	}
	return ExpenseCategories
}
