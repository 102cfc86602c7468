package store

import (
	"context"

	"github.com/uipafrica/evaluation-backend/internal/models"
)

// EvaluationStore abstracts persistence so the workflow service can be tested
// without a running Mongo instance.
type EvaluationStore interface {
	// Insert persists a new evaluation. A duplicate referenceNumber or token
	// surfaces as an error for which IsDup reports true.
	Insert(ctx context.Context, eval *models.Evaluation) error

	// FindByToken returns the full record for the employee-facing view, or
	// models.ErrNotFound.
	FindByToken(ctx context.Context, token string) (*models.Evaluation, error)

	// AcknowledgeByToken applies the acknowledgment as a single conditional
	// update gated on acknowledged=false, so two concurrent attempts cannot
	// both succeed. Returns models.ErrNotFound when nothing matched, which the
	// caller disambiguates from the already-acknowledged case.
	AcknowledgeByToken(ctx context.Context, token string, ack models.AcknowledgeRequest) (*models.Evaluation, error)

	// Search returns admin-facing records matching the filters, newest first,
	// with the token field stripped.
	Search(ctx context.Context, filters models.SearchFilters) ([]models.Evaluation, error)

	// FindByID returns one admin-facing record (token stripped), or
	// models.ErrNotFound.
	FindByID(ctx context.Context, id string) (*models.Evaluation, error)
}
