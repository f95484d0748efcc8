// Package audit provides the append-only audit trail every webhook decision
// is recorded to. The sink is fire-and-forget: a failure to append must never
// block or fail the transactional path, so Append returns nothing and
// swallows write errors.
package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wekesa/pesaledger/internal/pkg/models"
)

// Audit categories. They mirror the per-outcome log streams the pipeline
// produces so an operator can replay any decision after the fact.
const (
	CategoryValidationRequest     = "validation_request"
	CategoryValidationRejected    = "validation_rejected"
	CategoryConfirmationRequest   = "confirmation_request"
	CategoryConfirmationMalformed = "confirmation_malformed"
	CategoryConfirmationDuplicate = "confirmation_duplicate"
	CategoryConfirmationSuccess   = "confirmation_success"
	CategoryConfirmationError     = "confirmation_error"
	CategoryAccountUpdated        = "account_updated"
	CategoryAccountUpdateError    = "account_update_error"
	CategoryURLRegistration       = "url_registration"
)

// Sink is an append-only record of inbound requests and outcomes
type Sink interface {
	Append(category string, record map[string]interface{})
}

// FileSink appends JSON audit records to a file through a dedicated logrus
// instance, separate from the application logger.
type FileSink struct {
	logger *logrus.Logger
	file   *os.File
}

// NewFileSink creates an audit sink writing to the configured file
func NewFileSink(config models.AuditConfig) (*FileSink, error) {
	dir := filepath.Dir(config.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit file: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime: "timestamp",
			logrus.FieldKeyMsg:  "message",
		},
	})
	logger.SetOutput(file)

	return &FileSink{logger: logger, file: file}, nil
}

// Append writes one audit record. Errors are swallowed: the audit trail is
// best-effort relative to the primary path.
func (s *FileSink) Append(category string, record map[string]interface{}) {
	fields := logrus.Fields{"category": category}
	for k, v := range record {
		fields[k] = v
	}
	s.logger.WithFields(fields).Info(category)
}

// Close closes the audit file
func (s *FileSink) Close() error {
	return s.file.Close()
}

// NopSink discards all records, for tests
type NopSink struct{}

// Append implements Sink
func (NopSink) Append(string, map[string]interface{}) {}
