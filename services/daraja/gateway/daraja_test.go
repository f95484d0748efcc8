package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekesa/pesaledger/internal/pkg/database"
	"github.com/wekesa/pesaledger/internal/pkg/models"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *database.RedisClient) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return mr, &database.RedisClient{Client: client}
}

func testDarajaConfig() models.DarajaConfig {
	return models.DarajaConfig{
		Environment:     "sandbox",
		ConsumerKey:     "key",
		ConsumerSecret:  "secret",
		ShortCode:       "600638",
		ConfirmationURL: "https://example.com/mpesa/c2b/confirmation",
		ValidationURL:   "https://example.com/mpesa/c2b/validation",
		Timeout:         5,
	}
}

func TestAccessToken(t *testing.T) {
	var tokenRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/oauth/v1/generate", r.URL.Path)
		assert.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		tokenRequests++
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "test-token",
			"expires_in":   "3599",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), nil)
	client.baseURL = server.URL

	token, err := client.AccessToken(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, "test-token", token)
	assert.Equal(t, 1, tokenRequests)
}

func TestAccessToken_CachedInRedis(t *testing.T) {
	mr, redisClient := setupMiniredis(t)
	defer mr.Close()

	var tokenRequests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "test-token",
			"expires_in":   "3599",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), redisClient)
	client.baseURL = server.URL

	// First call hits the API and caches; second is served from Redis
	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	token, err = client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token", token)

	assert.Equal(t, 1, tokenRequests)
	assert.True(t, mr.Exists("daraja:access_token"))
}

func TestAccessToken_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), nil)
	client.baseURL = server.URL

	token, err := client.AccessToken(context.Background())

	assert.Error(t, err)
	assert.Empty(t, token)
}

func TestRegisterURLs_DefaultsFromConfig(t *testing.T) {
	var captured map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token", "expires_in": "3599"})
			return
		}

		assert.Equal(t, "/mpesa/c2b/v1/registerurl", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"OriginatorCoversationID": "7619-37765134-1",
			"ResponseDescription":     "success",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), nil)
	client.baseURL = server.URL

	resp, err := client.RegisterURLs(context.Background(), &models.RegisterURLsRequest{})

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "600638", captured["ShortCode"])
	assert.Equal(t, "Completed", captured["ResponseType"])
	assert.Equal(t, "https://example.com/mpesa/c2b/confirmation", captured["ConfirmationURL"])
	assert.Equal(t, "https://example.com/mpesa/c2b/validation", captured["ValidationURL"])
}

func TestRegisterURLs_UpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token", "expires_in": "3599"})
			return
		}

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"errorMessage": "Invalid ShortCode",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), nil)
	client.baseURL = server.URL

	_, err := client.RegisterURLs(context.Background(), &models.RegisterURLsRequest{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid ShortCode")
}

func TestSimulateTransaction_SandboxOnly(t *testing.T) {
	cfg := testDarajaConfig()
	cfg.Environment = "production"

	client := NewDarajaClient(cfg, nil)

	resp, err := client.SimulateTransaction(context.Background(), &models.SimulateRequest{
		Amount:        decimal.NewFromInt(100),
		MSISDN:        "254708374149",
		BillRefNumber: "A001",
	})

	assert.Error(t, err)
	assert.Nil(t, resp)
}

func TestSimulateTransaction(t *testing.T) {
	var captured map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/v1/generate" {
			json.NewEncoder(w).Encode(map[string]string{"access_token": "test-token", "expires_in": "3599"})
			return
		}

		assert.Equal(t, "/mpesa/c2b/v1/simulate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		json.NewEncoder(w).Encode(map[string]string{
			"ConversationID":      "AG_20240115_000056b1234",
			"ResponseDescription": "Accept the service request successfully.",
		})
	}))
	defer server.Close()

	client := NewDarajaClient(testDarajaConfig(), nil)
	client.baseURL = server.URL

	resp, err := client.SimulateTransaction(context.Background(), &models.SimulateRequest{
		Amount:        decimal.NewFromInt(100),
		MSISDN:        "254708374149",
		BillRefNumber: "A001",
	})

	assert.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "CustomerPayBillOnline", captured["CommandID"])
	assert.Equal(t, "600638", captured["ShortCode"])
	assert.Equal(t, "A001", captured["BillRefNumber"])
}
