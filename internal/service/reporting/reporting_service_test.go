package reporting

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"khetibook/internal/domain/models"
	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
)

type fakeLedger struct {
	transactions []models.Transaction
}

func (f *fakeLedger) Login(context.Context, ledger.Credentials) (ledger.AuthResult, error) {
	return ledger.AuthResult{}, errors.New("not implemented")
}

func (f *fakeLedger) Signup(context.Context, ledger.SignupRequest) (ledger.AuthResult, error) {
	return ledger.AuthResult{}, errors.New("not implemented")
}

func (f *fakeLedger) ListFarms(context.Context, string) ([]models.Farm, error) { return nil, nil }

func (f *fakeLedger) CreateFarm(context.Context, string, models.FarmPayload) (models.Farm, error) {
	return models.Farm{}, errors.New("not implemented")
}

func (f *fakeLedger) UpdateFarm(context.Context, string, int64, models.FarmPayload) (models.Farm, error) {
	return models.Farm{}, errors.New("not implemented")
}

func (f *fakeLedger) ListTransactions(context.Context, string) ([]models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeLedger) ListFarmTransactions(context.Context, string, int64) ([]models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeLedger) ListCommonTransactions(context.Context, string) ([]models.Transaction, error) {
	return f.transactions, nil
}

func (f *fakeLedger) CreateTransaction(context.Context, string, models.TransactionPayload) (models.Transaction, error) {
	return models.Transaction{}, errors.New("not implemented")
}

func (f *fakeLedger) UpdateTransaction(context.Context, string, int64, models.TransactionPayload) (models.Transaction, error) {
	return models.Transaction{}, errors.New("not implemented")
}

func (f *fakeLedger) Ask(context.Context, string, string) (string, error) {
	return "", errors.New("not implemented")
}

type fakeSnapshots struct {
	saved []models.DailySnapshot
}

func (f *fakeSnapshots) SaveSnapshot(_ context.Context, s models.DailySnapshot) error {
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeSnapshots) LatestSnapshot(context.Context) (models.DailySnapshot, error) {
	return models.DailySnapshot{}, errors.New("empty")
}

type fakeSheet struct {
	existing [][]interface{}
	appended [][]interface{}
}

func (f *fakeSheet) AppendRows(_ context.Context, _ string, rows [][]interface{}) error {
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeSheet) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.existing, nil
}

func signedInSessions(t *testing.T) *session.Manager {
	t.Helper()
	m := session.NewManager(filepath.Join(t.TempDir(), "session.json"), nil)
	if err := m.SignIn(session.Session{Token: "tok", DisplayName: "Ramesh"}); err != nil {
		t.Fatal(err)
	}
	return m
}

func TestService_CaptureDailySnapshot(t *testing.T) {
	fakeAPI := &fakeLedger{transactions: []models.Transaction{
		{ID: 1, Kind: models.KindIncome, Amount: 1000},
		{ID: 2, Kind: models.KindExpense, Amount: 400},
	}}
	snapshots := &fakeSnapshots{}

	svc := NewService(fakeAPI, signedInSessions(t), snapshots, nil, nil)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC) }

	if err := svc.CaptureDailySnapshot(context.Background()); err != nil {
		t.Fatalf("CaptureDailySnapshot() error = %v", err)
	}

	if len(snapshots.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(snapshots.saved))
	}
	got := snapshots.saved[0]
	if got.TotalRevenue != 1000 || got.TotalExpense != 400 || got.Profit != 600 {
		t.Errorf("snapshot totals = %+v", got)
	}
	if got.TransactionCount != 2 {
		t.Errorf("transaction count = %d, want 2", got.TransactionCount)
	}
}

func TestService_CaptureDailySnapshot_SkipsWhenSignedOut(t *testing.T) {
	snapshots := &fakeSnapshots{}
	sessions := session.NewManager(filepath.Join(t.TempDir(), "session.json"), nil)

	svc := NewService(&fakeLedger{}, sessions, snapshots, nil, nil)

	err := svc.CaptureDailySnapshot(context.Background())
	if !errors.Is(err, session.ErrNotSignedIn) {
		t.Fatalf("error = %v, want ErrNotSignedIn", err)
	}
	if len(snapshots.saved) != 0 {
		t.Errorf("snapshot stored while signed out")
	}
}

func TestService_ExportTransactions_SkipsAlreadyExported(t *testing.T) {
	fakeAPI := &fakeLedger{transactions: []models.Transaction{
		{ID: 1, Kind: models.KindExpense, Amount: 50, Date: models.NewDate(2025, 6, 1)},
		{ID: 2, Kind: models.KindIncome, Amount: 900, Date: models.NewDate(2025, 6, 2)},
	}}
	sheet := &fakeSheet{existing: [][]interface{}{
		{"ID", "Date", "Type"}, // header row
		{"1", "2025-06-01", "EXPENSE"},
	}}

	svc := NewService(fakeAPI, signedInSessions(t), nil, sheet, nil)

	exported, err := svc.ExportTransactions(context.Background())
	if err != nil {
		t.Fatalf("ExportTransactions() error = %v", err)
	}
	if exported != 1 {
		t.Fatalf("exported = %d, want 1", exported)
	}
	if len(sheet.appended) != 1 {
		t.Fatalf("appended %d rows, want 1", len(sheet.appended))
	}
	if sheet.appended[0][0] != int64(2) {
		t.Errorf("exported row id = %v, want 2", sheet.appended[0][0])
	}
}

func TestService_ExportTransactions_NothingNew(t *testing.T) {
	fakeAPI := &fakeLedger{transactions: []models.Transaction{
		{ID: 1, Kind: models.KindExpense, Amount: 50, Date: models.NewDate(2025, 6, 1)},
	}}
	sheet := &fakeSheet{existing: [][]interface{}{{"1", "2025-06-01", "EXPENSE"}}}

	svc := NewService(fakeAPI, signedInSessions(t), nil, sheet, nil)

	exported, err := svc.ExportTransactions(context.Background())
	if err != nil {
		t.Fatalf("ExportTransactions() error = %v", err)
	}
	if exported != 0 || len(sheet.appended) != 0 {
		t.Errorf("exported = %d rows appended = %d, want 0/0", exported, len(sheet.appended))
	}
}
