package daraja

import (
	"context"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// DarajaGW defines the interface to the Safaricom Daraja API. It is consumed
// only by the operator-facing registration flow, never by the ingestion
// pipeline.
type DarajaGW interface {
	// AccessToken acquires (or returns a cached) OAuth access token
	AccessToken(ctx context.Context) (string, error)

	// RegisterURLs registers the configured confirmation and validation
	// callback URLs for a shortcode
	RegisterURLs(ctx context.Context, req *models.RegisterURLsRequest) (*models.DarajaResponse, error)

	// SimulateTransaction simulates a C2B payment; sandbox only
	SimulateTransaction(ctx context.Context, req *models.SimulateRequest) (*models.DarajaResponse, error)
}
