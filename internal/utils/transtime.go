package utils

import "time"

// transTimeLayout is the compact timestamp format M-Pesa sends in TransTime
// (YYYYMMDDHHmmss, no zone; Safaricom uses Nairobi local time).
const transTimeLayout = "20060102150405"

// ParseTransTime normalizes the gateway's compact 14-digit timestamp into a
// time.Time. Anything that is not exactly 14 digits, or does not parse as a
// real date, yields nil rather than an error: a bad timestamp must never
// block ingestion of an otherwise valid payment.
func ParseTransTime(transTime string) *time.Time {
	if len(transTime) != 14 {
		return nil
	}
	for _, r := range transTime {
		if r < '0' || r > '9' {
			return nil
		}
	}

	t, err := time.Parse(transTimeLayout, transTime)
	if err != nil {
		return nil
	}

	return &t
}
