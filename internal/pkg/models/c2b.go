package models

import "github.com/shopspring/decimal"

// C2B result codes returned to the M-Pesa gateway. Any non-zero code rejects
// a validation request; confirmations are always acknowledged with zero.
const (
	C2BResultAccepted = 0
	C2BResultRejected = 1
)

// C2BValidationRequest is the payload Safaricom posts to the validation URL
// before finalizing a C2B payment. TransAmount unmarshals from both quoted
// and bare JSON numbers.
type C2BValidationRequest struct {
	TransactionType   string          `json:"TransactionType"`
	TransID           string          `json:"TransID"`
	TransTime         string          `json:"TransTime"`
	TransAmount       decimal.Decimal `json:"TransAmount"`
	BusinessShortCode string          `json:"BusinessShortCode"`
	BillRefNumber     string          `json:"BillRefNumber"`
	InvoiceNumber     string          `json:"InvoiceNumber"`
	MSISDN            string          `json:"MSISDN"`
	FirstName         string          `json:"FirstName"`
	MiddleName        string          `json:"MiddleName"`
	LastName          string          `json:"LastName"`
}

// C2BConfirmationRequest is the payload Safaricom posts to the confirmation
// URL after a C2B payment has been finalized. TransAmount is a pointer so a
// missing amount can be told apart from a zero one.
type C2BConfirmationRequest struct {
	TransactionType   string           `json:"TransactionType"`
	TransID           string           `json:"TransID"`
	TransTime         string           `json:"TransTime"`
	TransAmount       *decimal.Decimal `json:"TransAmount"`
	BusinessShortCode string           `json:"BusinessShortCode"`
	BillRefNumber     string           `json:"BillRefNumber"`
	InvoiceNumber     string           `json:"InvoiceNumber"`
	OrgAccountBalance string           `json:"OrgAccountBalance"`
	ThirdPartyTransID string           `json:"ThirdPartyTransID"`
	MSISDN            string           `json:"MSISDN"`
	FirstName         string           `json:"FirstName"`
	MiddleName        string           `json:"MiddleName"`
	LastName          string           `json:"LastName"`
}

// C2BResponse is the synchronous reply the gateway expects from both callback
// endpoints
type C2BResponse struct {
	ResultCode int    `json:"ResultCode"`
	ResultDesc string `json:"ResultDesc"`
}

// ConfirmationAck is the fixed acknowledgment for the confirmation endpoint.
// The gateway must never be told to retry a confirmation, so every internal
// outcome maps to this response.
func ConfirmationAck() *C2BResponse {
	return &C2BResponse{ResultCode: C2BResultAccepted, ResultDesc: "Confirmation received successfully"}
}

// ValidationAccept accepts a validation request
func ValidationAccept() *C2BResponse {
	return &C2BResponse{ResultCode: C2BResultAccepted, ResultDesc: "Accepted"}
}

// ValidationReject rejects a validation request with a reason
func ValidationReject(reason string) *C2BResponse {
	return &C2BResponse{ResultCode: C2BResultRejected, ResultDesc: "Rejected: " + reason}
}
