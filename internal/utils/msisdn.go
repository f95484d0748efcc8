package utils

import "strings"

// MaskMSISDN masks the middle digits of a phone number so audit records and
// log lines do not carry full payer identities. "254708374149" becomes
// "2547*****149". Short or empty values are returned unchanged.
func MaskMSISDN(msisdn string) string {
	stripped := strings.ReplaceAll(msisdn, " ", "")
	stripped = strings.ReplaceAll(stripped, "-", "")

	if len(stripped) < 8 {
		return stripped
	}

	return stripped[:4] + strings.Repeat("*", len(stripped)-7) + stripped[len(stripped)-3:]
}
