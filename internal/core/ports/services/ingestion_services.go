package services

import (
	"context"

	"github.com/SscSPs/pnl_insights_app/internal/core/domain"
)

// IngestionService defines the batch ingestion of statement payloads
type IngestionService interface {
	// IngestBatch normalizes and persists a raw batch payload.
	// A malformed envelope returns an apperrors.ParseError and no result.
	// When some entries fail, the result is returned together with an
	// apperrors.PartialBatchFailure. When every entry fails, the result is
	// returned with an error wrapping apperrors.ErrValidation.
	IngestBatch(ctx context.Context, payload []byte) (*domain.IngestionResult, error)
}
