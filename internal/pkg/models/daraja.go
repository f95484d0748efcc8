package models

import "github.com/shopspring/decimal"

// DarajaAuthResponse is the OAuth token response from the Daraja API.
// ExpiresIn is a string in the upstream payload ("3599").
type DarajaAuthResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

// RegisterURLsRequest is the operator request to register the C2B callback
// URLs for a shortcode. ResponseType controls what Safaricom does when the
// confirmation URL is unreachable (Completed or Cancelled).
type RegisterURLsRequest struct {
	ShortCode    string `json:"shortcode"`
	ResponseType string `json:"response_type"`
}

// SimulateRequest is the operator request to simulate a sandbox C2B payment
type SimulateRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	MSISDN        string          `json:"msisdn"`
	BillRefNumber string          `json:"bill_ref_number"`
}

// DarajaResponse is the generic acknowledgment the Daraja API returns for
// registration and simulation calls
type DarajaResponse struct {
	ConversationID           string `json:"ConversationID,omitempty"`
	OriginatorCoversationID  string `json:"OriginatorCoversationID,omitempty"`
	ResponseCode             string `json:"ResponseCode,omitempty"`
	ResponseDescription      string `json:"ResponseDescription,omitempty"`
	CustomerMessage          string `json:"CustomerMessage,omitempty"`
	ErrorCode                string `json:"errorCode,omitempty"`
	ErrorMessage             string `json:"errorMessage,omitempty"`
	OriginatorConversationID string `json:"OriginatorConversationID,omitempty"`
}
