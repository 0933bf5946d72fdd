package fboclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Client is a typed client for the FBO back-office API.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// Config holds client configuration.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// New creates a new API client. BaseURL points at the server root; the
// /api/v1 prefix is added by the client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL + "/api/v1",
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SetToken replaces the bearer token used on subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// envelope is the server's response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

// paginatedData is the data payload shape of list endpoints.
type paginatedData[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// do sends a JSON request and decodes the envelope's data into out. A failure
// envelope or non-2xx status becomes an *APIError.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Errors:     env.Errors,
		}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("unmarshal data: %w", err)
		}
	}

	return nil
}

// Login authenticates with email and password and stores the access token on
// the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	var tokens AuthTokens
	err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	c.SetToken(tokens.AccessToken)
	return &tokens, nil
}

// RefreshToken exchanges a refresh token for a new token pair.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	var tokens AuthTokens
	err := c.do(ctx, http.MethodPost, "/auth/refresh", map[string]string{
		"refresh_token": refreshToken,
	}, &tokens)
	if err != nil {
		return nil, err
	}
	c.SetToken(tokens.AccessToken)
	return &tokens, nil
}

// GetProfile returns the authenticated user.
func (c *Client) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ReceiptListParams filters the receipt list and export endpoints.
type ReceiptListParams struct {
	Page       int
	PerPage    int
	Status     string
	CustomerID *uuid.UUID
	Search     string
	StartDate  string // YYYY-MM-DD
	EndDate    string // YYYY-MM-DD
}

func (p *ReceiptListParams) query() string {
	if p == nil {
		return ""
	}
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", fmt.Sprintf("%d", p.Page))
	}
	if p.PerPage > 0 {
		q.Set("per_page", fmt.Sprintf("%d", p.PerPage))
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.CustomerID != nil {
		q.Set("customer_id", p.CustomerID.String())
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.StartDate != "" {
		q.Set("start_date", p.StartDate)
	}
	if p.EndDate != "" {
		q.Set("end_date", p.EndDate)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListReceipts lists receipts with optional filters.
func (c *Client) ListReceipts(ctx context.Context, params *ReceiptListParams) ([]Receipt, *Pagination, error) {
	var result paginatedData[Receipt]
	if err := c.do(ctx, http.MethodGet, "/receipts"+params.query(), nil, &result); err != nil {
		return nil, nil, err
	}
	return result.Items, result.Pagination, nil
}

// CreateReceipt creates a new draft. Fields follows the receipt JSON shape;
// nil creates a bare walk-in draft.
func (c *Client) CreateReceipt(ctx context.Context, fields map[string]interface{}) (*Receipt, error) {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	var receipt Receipt
	if err := c.do(ctx, http.MethodPost, "/receipts", fields, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetReceipt fetches a receipt by ID.
func (c *Client) GetReceipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	var receipt Receipt
	if err := c.do(ctx, http.MethodGet, "/receipts/"+id.String(), nil, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// UpdateReceipt patches a draft with only the given fields.
func (c *Client) UpdateReceipt(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*Receipt, error) {
	var receipt Receipt
	if err := c.do(ctx, http.MethodPatch, "/receipts/"+id.String(), fields, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// CalculateFees replaces the receipt's fee set and returns the recomputed
// receipt.
func (c *Client) CalculateFees(ctx context.Context, id uuid.UUID, fees []FeeLine) (*Receipt, error) {
	var receipt Receipt
	body := map[string]interface{}{"fees": fees}
	if err := c.do(ctx, http.MethodPost, "/receipts/"+id.String()+"/calculate-fees", body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ToggleWaiver flips the waiver on a fee line item.
func (c *Client) ToggleWaiver(ctx context.Context, id, lineItemID uuid.UUID) (*Receipt, error) {
	var receipt Receipt
	path := "/receipts/" + id.String() + "/line-items/" + lineItemID.String() + "/toggle-waiver"
	if err := c.do(ctx, http.MethodPost, path, nil, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GenerateReceipt finalizes a draft and assigns its receipt number.
func (c *Client) GenerateReceipt(ctx context.Context, id uuid.UUID) (*Receipt, error) {
	var receipt Receipt
	if err := c.do(ctx, http.MethodPost, "/receipts/"+id.String()+"/generate", nil, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// MarkReceiptPaid records payment on a generated receipt.
func (c *Client) MarkReceiptPaid(ctx context.Context, id uuid.UUID, paymentMethod string) (*Receipt, error) {
	var receipt Receipt
	body := map[string]string{"payment_method": paymentMethod}
	if err := c.do(ctx, http.MethodPost, "/receipts/"+id.String()+"/mark-paid", body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// VoidReceipt voids a generated or paid receipt.
func (c *Client) VoidReceipt(ctx context.Context, id uuid.UUID, reason string) (*Receipt, error) {
	var receipt Receipt
	body := map[string]string{"reason": reason}
	if err := c.do(ctx, http.MethodPost, "/receipts/"+id.String()+"/void", body, &receipt); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// DeleteReceipt removes a draft.
func (c *Client) DeleteReceipt(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/receipts/"+id.String(), nil, nil)
}

// ListCustomers lists customers.
func (c *Client) ListCustomers(ctx context.Context, page, perPage int, search string) ([]Customer, *Pagination, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", fmt.Sprintf("%d", page))
	}
	if perPage > 0 {
		q.Set("per_page", fmt.Sprintf("%d", perPage))
	}
	if search != "" {
		q.Set("search", search)
	}
	path := "/customers"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var result paginatedData[Customer]
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, nil, err
	}
	return result.Items, result.Pagination, nil
}

// ListClassifications lists aircraft classifications.
func (c *Client) ListClassifications(ctx context.Context) ([]AircraftClassification, error) {
	var classifications []AircraftClassification
	if err := c.do(ctx, http.MethodGet, "/admin/classifications", nil, &classifications); err != nil {
		return nil, err
	}
	return classifications, nil
}

// ListAircraftTypes lists aircraft types, optionally scoped to one
// classification.
func (c *Client) ListAircraftTypes(ctx context.Context, classificationID *uuid.UUID) ([]AircraftType, error) {
	path := "/admin/aircraft-types"
	if classificationID != nil {
		path += "?classification_id=" + classificationID.String()
	}
	var types []AircraftType
	if err := c.do(ctx, http.MethodGet, path, nil, &types); err != nil {
		return nil, err
	}
	return types, nil
}

// ListFeeRules lists all fee rules.
func (c *Client) ListFeeRules(ctx context.Context) ([]FeeRule, error) {
	var rules []FeeRule
	if err := c.do(ctx, http.MethodGet, "/admin/fee-rules", nil, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

// UpsertOverride creates or replaces an override on a fee rule.
func (c *Client) UpsertOverride(ctx context.Context, feeRuleID uuid.UUID, override FeeRuleOverride) (*FeeRuleOverride, error) {
	var result FeeRuleOverride
	path := "/admin/fee-rules/" + feeRuleID.String() + "/overrides"
	if err := c.do(ctx, http.MethodPut, path, override, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchUpsertOverrides applies several override upserts in one transaction.
func (c *Client) BatchUpsertOverrides(ctx context.Context, overrides []FeeRuleOverride) ([]FeeRuleOverride, error) {
	var result []FeeRuleOverride
	body := map[string]interface{}{"overrides": overrides}
	if err := c.do(ctx, http.MethodPost, "/admin/fee-rules/overrides/batch", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListFuelTypes lists fuel types.
func (c *Client) ListFuelTypes(ctx context.Context) ([]FuelType, error) {
	var fuelTypes []FuelType
	if err := c.do(ctx, http.MethodGet, "/admin/fuel-types", nil, &fuelTypes); err != nil {
		return nil, err
	}
	return fuelTypes, nil
}

// SetFuelPrice updates the pump price on a fuel type.
func (c *Client) SetFuelPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*FuelType, error) {
	var fuelType FuelType
	body := map[string]interface{}{"price_per_gallon": price}
	if err := c.do(ctx, http.MethodPut, "/admin/fuel-types/"+id.String()+"/price", body, &fuelType); err != nil {
		return nil, err
	}
	return &fuelType, nil
}

// GetDashboardStats fetches the dashboard payload.
func (c *Client) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// getRaw fetches an endpoint that returns a plain body (CSV, text) rather
// than the JSON envelope. Error responses still carry the envelope.
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env envelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return nil, apiErr
	}
	return body, nil
}

// ExportReceiptsCSV downloads the receipts CSV matching the filters.
func (c *Client) ExportReceiptsCSV(ctx context.Context, params *ReceiptListParams) ([]byte, error) {
	return c.getRaw(ctx, "/reports/receipts/export"+params.query())
}

// PrintReceipt fetches the plain-text printable rendering of a receipt.
func (c *Client) PrintReceipt(ctx context.Context, id uuid.UUID) (string, error) {
	body, err := c.getRaw(ctx, "/receipts/"+id.String()+"/print")
	if err != nil {
		return "", err
	}
	return string(body), nil
}
