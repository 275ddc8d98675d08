package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"khetibook/internal/domain/models"
	"khetibook/internal/service/bookkeeping"
	"khetibook/internal/service/finance"
	"khetibook/internal/service/lifecycle"
	"khetibook/internal/service/reconcile"
	"khetibook/internal/service/reporting"
	"khetibook/internal/service/session"
	"khetibook/pkg/clients/ledger"
)

type fakeLedger struct {
	transactions []models.Transaction
	farms        []models.Farm
	created      int
	updated      int
	listErr      error
}

func (f *fakeLedger) Login(context.Context, ledger.Credentials) (ledger.AuthResult, error) {
	return ledger.AuthResult{Token: "tok", Name: "Ramesh"}, nil
}

func (f *fakeLedger) Signup(context.Context, ledger.SignupRequest) (ledger.AuthResult, error) {
	return ledger.AuthResult{Token: "tok", Name: "Ramesh"}, nil
}

func (f *fakeLedger) ListFarms(context.Context, string) ([]models.Farm, error) {
	return f.farms, nil
}

func (f *fakeLedger) CreateFarm(_ context.Context, _ string, p models.FarmPayload) (models.Farm, error) {
	return models.Farm{ID: 1, Name: p.Name}, nil
}

func (f *fakeLedger) UpdateFarm(_ context.Context, _ string, id int64, p models.FarmPayload) (models.Farm, error) {
	return models.Farm{ID: id, Name: p.Name}, nil
}

func (f *fakeLedger) ListTransactions(context.Context, string) ([]models.Transaction, error) {
	return f.transactions, f.listErr
}

func (f *fakeLedger) ListFarmTransactions(context.Context, string, int64) ([]models.Transaction, error) {
	return f.transactions, f.listErr
}

func (f *fakeLedger) ListCommonTransactions(context.Context, string) ([]models.Transaction, error) {
	return f.transactions, f.listErr
}

func (f *fakeLedger) CreateTransaction(_ context.Context, _ string, p models.TransactionPayload) (models.Transaction, error) {
	f.created++
	return models.Transaction{ID: 100, Kind: p.Kind, Amount: p.Amount}, nil
}

func (f *fakeLedger) UpdateTransaction(_ context.Context, _ string, id int64, p models.TransactionPayload) (models.Transaction, error) {
	f.updated++
	return models.Transaction{ID: id, Kind: p.Kind, Amount: p.Amount}, nil
}

func (f *fakeLedger) Ask(context.Context, string, string) (string, error) {
	return "try drip irrigation", nil
}

func newTestRouter(t *testing.T, fake *fakeLedger, signedIn bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sessions := session.NewManager(filepath.Join(t.TempDir(), "session.json"), nil)
	if signedIn {
		if err := sessions.SignIn(session.Session{Token: "tok", DisplayName: "Ramesh"}); err != nil {
			t.Fatal(err)
		}
	}

	engine := reconcile.NewEngine(nil)
	handler := New(
		sessions,
		fake,
		bookkeeping.NewService(fake, engine, nil),
		finance.NewService(fake, nil),
		lifecycle.NewCalculator(),
		reporting.NewService(fake, sessions, nil, nil, nil),
		nil,
	)

	r := gin.New()
	r.POST("/api/auth/login", handler.Login)
	api := r.Group("/api", handler.RequireSession)
	api.GET("/dashboard/summary", handler.DashboardSummary)
	api.POST("/forms/transaction/open", handler.OpenForm)
	api.POST("/forms/transaction/submit", handler.SubmitForm)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSession_RejectsSignedOut(t *testing.T) {
	r := newTestRouter(t, &fakeLedger{}, false)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestDashboardSummary(t *testing.T) {
	fake := &fakeLedger{transactions: []models.Transaction{
		{Kind: models.KindIncome, Amount: 1000},
		{Kind: models.KindExpense, Amount: 400},
	}}
	r := newTestRouter(t, fake, true)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var summary models.FinancialSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatal(err)
	}
	want := models.FinancialSummary{TotalRevenue: 1000, TotalExpense: 400, Profit: 600}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestDashboardSummary_LedgerFailureIsBlockingNotice(t *testing.T) {
	fake := &fakeLedger{listErr: errors.New("connection refused")}
	r := newTestRouter(t, fake, true)

	w := doJSON(t, r, http.MethodGet, "/api/dashboard/summary", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
}

func TestOpenForm_PrefillStaysCreate(t *testing.T) {
	r := newTestRouter(t, &fakeLedger{}, true)

	w := doJSON(t, r, http.MethodPost, "/api/forms/transaction/open", map[string]any{
		"prefill": map[string]any{"farmId": 5, "category": "Diesel"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var state models.FormState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Mode != models.ModeCreate {
		t.Errorf("mode = %v, want CREATE", state.Mode)
	}
	if state.FarmSelection != "5" {
		t.Errorf("farm selection = %q, want 5", state.FarmSelection)
	}
}

func TestOpenForm_EditLoadsRecord(t *testing.T) {
	fake := &fakeLedger{transactions: []models.Transaction{
		{ID: 42, Kind: models.KindIncome, Category: "Fruits", Amount: 900, Date: models.NewDate(2025, 5, 1)},
	}}
	r := newTestRouter(t, fake, true)

	w := doJSON(t, r, http.MethodPost, "/api/forms/transaction/open", map[string]any{"transactionId": 42})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var state models.FormState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatal(err)
	}
	if state.Mode != models.ModeEdit || state.TransactionID != 42 {
		t.Errorf("mode/id = %v/%d, want EDIT/42", state.Mode, state.TransactionID)
	}
}

func TestSubmitForm_MissingAmountRejectedBeforeDispatch(t *testing.T) {
	fake := &fakeLedger{}
	r := newTestRouter(t, fake, true)

	w := doJSON(t, r, http.MethodPost, "/api/forms/transaction/submit", models.FormState{
		Mode: models.ModeCreate,
		Kind: models.KindExpense,
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", w.Code)
	}
	if fake.created != 0 || fake.updated != 0 {
		t.Errorf("ledger reached despite validation failure: %d creates, %d updates", fake.created, fake.updated)
	}
}

func TestSubmitForm_Create(t *testing.T) {
	fake := &fakeLedger{}
	r := newTestRouter(t, fake, true)

	w := doJSON(t, r, http.MethodPost, "/api/forms/transaction/submit", models.FormState{
		Mode:          models.ModeCreate,
		Kind:          models.KindExpense,
		FarmSelection: models.CommonFarmSelection,
		Category:      "Diesel",
		Date:          models.NewDate(2025, 6, 1),
		Amount:        "500",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if fake.created != 1 {
		t.Errorf("creates = %d, want 1", fake.created)
	}
}
