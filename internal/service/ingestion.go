package service

import (
	"context"
	"fmt"

	"webhook-inbox-go/internal/model"
	"webhook-inbox-go/internal/payload"
	"webhook-inbox-go/internal/repository"
	"webhook-inbox-go/internal/signature"
)

// Outcome is the terminal state of one ingestion
type Outcome string

const (
	OutcomeInvalidSignature Outcome = "invalid_signature"
	OutcomeValidationError  Outcome = "validation_error"
	OutcomeCreated          Outcome = "created"
	OutcomeDuplicate        Outcome = "duplicate"
)

// Accepted reports whether the webhook was taken, duplicates included
func (o Outcome) Accepted() bool {
	return o == OutcomeCreated || o == OutcomeDuplicate
}

// MessageWriter persists messages idempotently
type MessageWriter interface {
	Insert(ctx context.Context, msg *model.Message) (repository.InsertResult, error)
}

// IngestResult describes a finished ingestion. MessageID is empty when the
// request never got past validation.
type IngestResult struct {
	Outcome   Outcome
	MessageID string
}

// Ingester accepts raw webhook deliveries
type Ingester interface {
	Ingest(ctx context.Context, body []byte, sig string) (IngestResult, error)
}

// IngestionService verifies, parses and stores webhook deliveries
type IngestionService struct {
	verifier *signature.Verifier
	store    MessageWriter
}

func NewIngestionService(verifier *signature.Verifier, store MessageWriter) *IngestionService {
	return &IngestionService{verifier: verifier, store: store}
}

// Ingest runs one delivery through verification, validation and storage.
// A signature failure wraps signature.ErrUnauthorized, a payload failure
// wraps payload.ErrValidation and a storage failure wraps
// repository.ErrStorageUnavailable with an empty outcome.
func (s *IngestionService) Ingest(ctx context.Context, body []byte, sig string) (IngestResult, error) {
	if err := s.verifier.Verify(body, sig); err != nil {
		return IngestResult{Outcome: OutcomeInvalidSignature}, err
	}

	msg, err := payload.Parse(body)
	if err != nil {
		return IngestResult{Outcome: OutcomeValidationError}, err
	}

	result, err := s.store.Insert(ctx, msg)
	if err != nil {
		return IngestResult{MessageID: msg.MessageID}, fmt.Errorf("failed to store message %s: %w", msg.MessageID, err)
	}

	outcome := OutcomeCreated
	if result == repository.Duplicate {
		outcome = OutcomeDuplicate
	}
	return IngestResult{Outcome: outcome, MessageID: msg.MessageID}, nil
}
