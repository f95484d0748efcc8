package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

func TestGenerateOperatorToken_Success(t *testing.T) {
	cfg := models.JWTConfig{
		Secret:     "test-secret",
		Expiration: 60,
		Issuer:     "pesaledger-test",
	}

	token, expiresAt, err := GenerateOperatorToken(cfg)

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	claims, err := ValidateToken(token, cfg.Secret)
	assert.NoError(t, err)
	assert.Equal(t, "operator", (*claims)["sub"])
	assert.Equal(t, "pesaledger-test", (*claims)["iss"])
}

func TestValidateToken_WrongSecret(t *testing.T) {
	cfg := models.JWTConfig{
		Secret:     "correct-secret",
		Expiration: 60,
		Issuer:     "pesaledger-test",
	}

	token, _, err := GenerateOperatorToken(cfg)
	assert.NoError(t, err)

	claims, err := ValidateToken(token, "wrong-secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_Garbage(t *testing.T) {
	claims, err := ValidateToken("not-a-token", "secret")
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestGenerateOperatorToken_Expired(t *testing.T) {
	cfg := models.JWTConfig{
		Secret:     "test-secret",
		Expiration: -1,
		Issuer:     "pesaledger-test",
	}

	token, _, err := GenerateOperatorToken(cfg)
	assert.NoError(t, err)

	claims, err := ValidateToken(token, cfg.Secret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
