package models

// FormMode tells the payload dispatcher whether a submission inserts a new
// record or replaces an existing one. It is fixed when the form opens and
// never changes afterwards.
type FormMode string

const (
	ModeCreate FormMode = "CREATE"
	ModeEdit   FormMode = "EDIT"
)

// CommonFarmSelection is the sentinel selection for entries with no owning farm.
const CommonFarmSelection = "common"

// TransactionSeed initializes a reconciliation form. The concrete type decides
// the form mode: a NewTransactionSeed always opens a create form no matter how
// many fields it prefills, an ExistingTransactionSeed always opens an edit form.
type TransactionSeed interface {
	isTransactionSeed()
}

// NewTransactionSeed prefills a create form. Every field is optional; zero
// values mean "not supplied" and fall back to the form defaults.
type NewTransactionSeed struct {
	Kind        TransactionKind
	FarmID      *int64
	Category    string
	Date        Date
	Description string
	Amount      string
	Quantity    string
	Unit        string
}

func (NewTransactionSeed) isTransactionSeed() {}

// ExistingTransactionSeed opens an edit form over a persisted record.
type ExistingTransactionSeed struct {
	ID     int64
	Record Transaction
}

func (ExistingTransactionSeed) isTransactionSeed() {}

// FormState is the full editable state of a reconciliation form. Monetary and
// quantity fields stay as entered text until the payload builder coerces them.
type FormState struct {
	Mode          FormMode        `json:"mode"`
	TransactionID int64           `json:"transactionId,omitempty"`
	Kind          TransactionKind `json:"type"`
	FarmSelection string          `json:"farmSelection"`
	Category      string          `json:"category"`
	Date          Date            `json:"date"`
	Description   string          `json:"description"`
	Amount        string          `json:"amount"`
	Quantity      string          `json:"quantity"`
	Unit          string          `json:"unit"`
	Rate          string          `json:"rate"`
}
