// Package ledger is the HTTP client for the persistence collaborator: a
// REST-like API owning farms, transactions and authentication. Every
// authenticated call carries the session's bearer token, threaded in
// explicitly by the caller. Failed calls are surfaced to the initiating
// action and never retried here.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"khetibook/internal/config"
	"khetibook/internal/domain/models"
)

// ErrInvalidCredentials is returned for any authentication rejection. The
// message is deliberately generic: unknown users and wrong passwords are
// indistinguishable to resist account enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials")

// API exposes the ledger operations used by the application.
type API interface {
	Login(ctx context.Context, creds Credentials) (AuthResult, error)
	Signup(ctx context.Context, req SignupRequest) (AuthResult, error)

	ListFarms(ctx context.Context, token string) ([]models.Farm, error)
	CreateFarm(ctx context.Context, token string, payload models.FarmPayload) (models.Farm, error)
	UpdateFarm(ctx context.Context, token string, id int64, payload models.FarmPayload) (models.Farm, error)

	ListTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	ListFarmTransactions(ctx context.Context, token string, farmID int64) ([]models.Transaction, error)
	ListCommonTransactions(ctx context.Context, token string) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, token string, payload models.TransactionPayload) (models.Transaction, error)
	UpdateTransaction(ctx context.Context, token string, id int64, payload models.TransactionPayload) (models.Transaction, error)

	Ask(ctx context.Context, token string, message string) (string, error)
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest is the account registration body.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries the credential returned by a successful login or signup.
type AuthResult struct {
	Token string `json:"token"`
	Name  string `json:"name"`
}

// apiError mirrors the ledger API error payload.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *apiError) text() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// Client is a resty-backed implementation of API.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds a ledger client from configuration.
func NewClient(cfg config.LedgerConfig) *Client {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(cfg.Timeout)

	return &Client{httpClient: restyClient}
}

// Login exchanges credentials for a bearer token and display name.
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", creds)
}

// Signup registers a new account and returns its credential.
func (c *Client) Signup(ctx context.Context, req SignupRequest) (AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/signup", req)
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (AuthResult, error) {
	result := new(AuthResult)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result).
		SetError(apiErr).
		Post(path)
	if err != nil {
		return AuthResult{}, fmt.Errorf("ledger auth call: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized || resp.StatusCode() == http.StatusForbidden {
		return AuthResult{}, ErrInvalidCredentials
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return AuthResult{}, fmt.Errorf("ledger api error: status=%d, message=%s", resp.StatusCode(), apiErr.text())
	}

	return *result, nil
}

// ListFarms fetches all farms.
func (c *Client) ListFarms(ctx context.Context, token string) ([]models.Farm, error) {
	var farms []models.Farm
	if err := c.get(ctx, token, "/api/farms", &farms); err != nil {
		return nil, err
	}
	return farms, nil
}

// CreateFarm inserts a new farm.
func (c *Client) CreateFarm(ctx context.Context, token string, payload models.FarmPayload) (models.Farm, error) {
	var farm models.Farm
	if err := c.send(ctx, token, http.MethodPost, "/api/farms", payload, &farm); err != nil {
		return models.Farm{}, err
	}
	return farm, nil
}

// UpdateFarm replaces a farm record by identifier.
func (c *Client) UpdateFarm(ctx context.Context, token string, id int64, payload models.FarmPayload) (models.Farm, error) {
	var farm models.Farm
	if err := c.send(ctx, token, http.MethodPut, fmt.Sprintf("/api/farms/%d", id), payload, &farm); err != nil {
		return models.Farm{}, err
	}
	return farm, nil
}

// ListTransactions fetches every transaction regardless of scope.
func (c *Client) ListTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.get(ctx, token, "/api/transactions", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ListFarmTransactions fetches the transactions owned by one farm.
func (c *Client) ListFarmTransactions(ctx context.Context, token string, farmID int64) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.get(ctx, token, fmt.Sprintf("/api/transactions/farm/%d", farmID), &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ListCommonTransactions fetches the shared entries with no owning farm.
func (c *Client) ListCommonTransactions(ctx context.Context, token string) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := c.get(ctx, token, "/api/transactions/common", &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// CreateTransaction inserts a new record.
func (c *Client) CreateTransaction(ctx context.Context, token string, payload models.TransactionPayload) (models.Transaction, error) {
	var tx models.Transaction
	if err := c.send(ctx, token, http.MethodPost, "/api/transactions", payload, &tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// UpdateTransaction replaces a record by identifier. The ledger API supports
// only full replacement, no partial patch.
func (c *Client) UpdateTransaction(ctx context.Context, token string, id int64, payload models.TransactionPayload) (models.Transaction, error) {
	var tx models.Transaction
	if err := c.send(ctx, token, http.MethodPut, fmt.Sprintf("/api/transactions/%d", id), payload, &tx); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// Ask forwards a free-text advisory question and returns the reply text.
func (c *Client) Ask(ctx context.Context, token string, message string) (string, error) {
	var result struct {
		Reply string `json:"reply"`
	}
	body := map[string]string{"message": message}
	if err := c.send(ctx, token, http.MethodPost, "/api/ai/chat", body, &result); err != nil {
		return "", err
	}
	return result.Reply, nil
}

func (c *Client) get(ctx context.Context, token, path string, out any) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(out).
		SetError(apiErr).
		Get(path)
	if err != nil {
		return fmt.Errorf("ledger GET %s: %w", path, err)
	}
	return c.checkStatus(resp, apiErr, path)
}

func (c *Client) send(ctx context.Context, token, method, path string, body, out any) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetBody(body).
		SetResult(out).
		SetError(apiErr).
		Execute(method, path)
	if err != nil {
		return fmt.Errorf("ledger %s %s: %w", method, path, err)
	}
	return c.checkStatus(resp, apiErr, path)
}

func (c *Client) checkStatus(resp *resty.Response, apiErr *apiError, path string) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("ledger api error on %s: status=%d, message=%s", path, resp.StatusCode(), apiErr.text())
}
