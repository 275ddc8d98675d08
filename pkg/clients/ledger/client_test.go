package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"khetibook/internal/config"
	"khetibook/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(config.LedgerConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
}

func TestClient_Login(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode credentials: %v", err)
		}
		if creds.Email != "ramesh@example.com" {
			t.Errorf("email = %q", creds.Email)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(AuthResult{Token: "tok-1", Name: "Ramesh"})
	}))

	result, err := client.Login(context.Background(), Credentials{Email: "ramesh@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.Token != "tok-1" || result.Name != "Ramesh" {
		t.Errorf("Login() = %+v", result)
	}
}

func TestClient_Login_InvalidCredentials(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "user not found"})
	}))

	_, err := client.Login(context.Background(), Credentials{Email: "x@example.com", Password: "nope"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("Login() error = %v, want ErrInvalidCredentials", err)
	}
	// The upstream detail ("user not found") must not leak through.
	if err.Error() != ErrInvalidCredentials.Error() {
		t.Errorf("error message = %q, want the generic one", err.Error())
	}
}

func TestClient_BearerTokenAttached(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-42" {
			t.Errorf("Authorization = %q, want Bearer tok-42", got)
		}
		_ = json.NewEncoder(w).Encode([]models.Farm{})
	}))

	if _, err := client.ListFarms(context.Background(), "tok-42"); err != nil {
		t.Fatalf("ListFarms() error = %v", err)
	}
}

func TestClient_CreateTransaction(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["farmId"] != nil {
			t.Errorf("farmId = %v, want null", payload["farmId"])
		}
		if payload["amount"] != float64(500) {
			t.Errorf("amount = %v, want 500", payload["amount"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Transaction{ID: 9, Kind: models.KindExpense, Amount: 500, Date: models.NewDate(2025, time.June, 1)})
	}))

	tx, err := client.CreateTransaction(context.Background(), "tok", models.TransactionPayload{
		Kind:     models.KindExpense,
		Category: "Diesel",
		Amount:   500,
		Date:     models.NewDate(2025, time.June, 1),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error = %v", err)
	}
	if tx.ID != 9 {
		t.Errorf("returned id = %d, want 9", tx.ID)
	}
}

func TestClient_UpdateTransaction_PathCarriesID(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions/42" || r.Method != http.MethodPut {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Transaction{ID: 42})
	}))

	tx, err := client.UpdateTransaction(context.Background(), "tok", 42, models.TransactionPayload{Amount: 10})
	if err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}
	if tx.ID != 42 {
		t.Errorf("returned id = %d, want 42", tx.ID)
	}
}

func TestClient_ServerErrorSurfaced(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "db down"})
	}))

	_, err := client.ListTransactions(context.Background(), "tok")
	if err == nil {
		t.Fatal("ListTransactions() error = nil, want failure")
	}
}
