package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/wekesa/pesaledger/internal/pkg/database"
	"github.com/wekesa/pesaledger/internal/pkg/models"
)

const (
	sandboxBaseURL    = "https://sandbox.safaricom.co.ke"
	productionBaseURL = "https://api.safaricom.co.ke"

	// tokenCacheKey is the Redis key the OAuth token is cached under
	tokenCacheKey = "daraja:access_token"

	// tokenTTLMargin is shaved off the upstream expiry so a cached token is
	// never handed out moments before it dies
	tokenTTLMargin = 60 * time.Second
)

// DarajaClient implements the daraja.DarajaGW interface against the
// Safaricom Daraja HTTP API
type DarajaClient struct {
	cfg         models.DarajaConfig
	baseURL     string
	httpClient  *http.Client
	redisClient *database.RedisClient
}

// NewDarajaClient creates a new Daraja API client. The Redis client is used
// to cache the OAuth token across requests; pass nil to disable caching.
func NewDarajaClient(cfg models.DarajaConfig, redisClient *database.RedisClient) *DarajaClient {
	baseURL := sandboxBaseURL
	if cfg.Environment == "production" {
		baseURL = productionBaseURL
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &DarajaClient{
		cfg:         cfg,
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: timeout},
		redisClient: redisClient,
	}
}

// AccessToken acquires an OAuth access token via the client-credentials
// grant, preferring a cached one
func (c *DarajaClient) AccessToken(ctx context.Context) (string, error) {
	if c.redisClient != nil {
		if token, err := c.redisClient.Get(ctx, tokenCacheKey); err == nil && token != "" {
			return token, nil
		}
	}

	url := c.baseURL + "/oauth/v1/generate?grant_type=client_credentials"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var authResp models.DarajaAuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if authResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	c.cacheToken(ctx, authResp)

	return authResp.AccessToken, nil
}

// cacheToken stores the token with a TTL just under its upstream expiry,
// best-effort
func (c *DarajaClient) cacheToken(ctx context.Context, authResp models.DarajaAuthResponse) {
	if c.redisClient == nil {
		return
	}

	expiresIn, err := strconv.Atoi(authResp.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		return
	}

	ttl := time.Duration(expiresIn)*time.Second - tokenTTLMargin
	if ttl <= 0 {
		return
	}

	_ = c.redisClient.Set(ctx, tokenCacheKey, authResp.AccessToken, ttl)
}

// RegisterURLs registers the configured C2B callback URLs for a shortcode
func (c *DarajaClient) RegisterURLs(ctx context.Context, req *models.RegisterURLsRequest) (*models.DarajaResponse, error) {
	shortCode := req.ShortCode
	if shortCode == "" {
		shortCode = c.cfg.ShortCode
	}
	responseType := req.ResponseType
	if responseType == "" {
		responseType = "Completed"
	}

	payload := map[string]string{
		"ShortCode":       shortCode,
		"ResponseType":    responseType,
		"ConfirmationURL": c.cfg.ConfirmationURL,
		"ValidationURL":   c.cfg.ValidationURL,
	}

	return c.post(ctx, "/mpesa/c2b/v1/registerurl", payload)
}

// SimulateTransaction simulates a C2B payment against the sandbox
func (c *DarajaClient) SimulateTransaction(ctx context.Context, req *models.SimulateRequest) (*models.DarajaResponse, error) {
	if c.cfg.Environment != "sandbox" {
		return nil, fmt.Errorf("simulation is only available in the sandbox environment")
	}

	payload := map[string]interface{}{
		"ShortCode":     c.cfg.ShortCode,
		"CommandID":     "CustomerPayBillOnline",
		"Amount":        req.Amount,
		"Msisdn":        req.MSISDN,
		"BillRefNumber": req.BillRefNumber,
	}

	return c.post(ctx, "/mpesa/c2b/v1/simulate", payload)
}

// post sends an authenticated JSON request to the Daraja API
func (c *DarajaClient) post(ctx context.Context, path string, payload interface{}) (*models.DarajaResponse, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	var darajaResp models.DarajaResponse
	if err := json.NewDecoder(resp.Body).Decode(&darajaResp); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &darajaResp, fmt.Errorf("daraja request to %s failed with status %d: %s", path, resp.StatusCode, darajaResp.ErrorMessage)
	}

	return &darajaResp, nil
}
