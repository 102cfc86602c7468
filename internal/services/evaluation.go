// Package services holds the evaluation workflow core: creation with
// generated identifiers and a best-effort notification, token-gated retrieval
// and one-time acknowledgment, and the admin queries.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uipafrica/evaluation-backend/internal/config"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"github.com/uipafrica/evaluation-backend/internal/reference"
	"github.com/uipafrica/evaluation-backend/internal/store"
	"go.uber.org/zap"
)

// Swappable in tests.
var timeNow = time.Now

// NotificationSender is what the workflow needs from the mailer.
type NotificationSender interface {
	SendEvaluationLink(ctx context.Context, toEmail, link, referenceNumber string) error
}

type EvaluationService struct {
	store  store.EvaluationStore
	mailer NotificationSender
	cfg    *config.Config
	log    *zap.Logger
}

func NewEvaluationService(st store.EvaluationStore, mailer NotificationSender, cfg *config.Config, log *zap.Logger) *EvaluationService {
	return &EvaluationService{store: st, mailer: mailer, cfg: cfg, log: log}
}

// CreateResult is what the supervisor gets back: the admin-visible reference
// number and the record id. The token travels only in the employee's email.
type CreateResult struct {
	ReferenceNumber string `json:"referenceNumber"`
	ID              string `json:"id"`
}

// Create validates the payload, persists a new evaluation with freshly
// generated identifiers and queues the notification email. The email is fire
// and forget: once the record is durable the request has succeeded.
func (s *EvaluationService) Create(ctx context.Context, req *models.CreateEvaluationRequest) (*CreateResult, error) {
	if verr := validateCreate(req); verr != nil {
		return nil, verr
	}

	from, _ := models.ParseDate(req.ReviewPeriodFrom)
	to, _ := models.ParseDate(req.ReviewPeriodTo)

	now := timeNow()
	eval := &models.Evaluation{
		EmployeeName:               req.EmployeeName,
		JobTitle:                   req.JobTitle,
		Department:                 req.Department,
		SupervisorName:             req.SupervisorName,
		ReviewPeriodFrom:           from,
		ReviewPeriodTo:             to,
		EmployeeEmail:              req.EmployeeEmail,
		PerformanceRatings:         req.PerformanceRatings,
		OverallPerformanceComments: req.OverallPerformanceComments,
		SupervisorComments:         req.SupervisorComments,
		Acknowledged:               false,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}

	// A unique-index collision is statistically negligible at this entropy;
	// one regenerate-and-retry covers it without looping.
	for attempt := 0; ; attempt++ {
		ref, err := reference.NewReferenceNumber()
		if err != nil {
			return nil, err
		}
		token, err := reference.NewAccessToken()
		if err != nil {
			return nil, err
		}
		eval.ReferenceNumber = ref
		eval.Token = token

		err = s.store.Insert(ctx, eval)
		if err == nil {
			break
		}
		if store.IsDup(err) && attempt == 0 {
			s.log.Warn("identifier collision on insert, regenerating",
				zap.String("referenceNumber", ref))
			continue
		}
		return nil, fmt.Errorf("insert evaluation: %w", err)
	}

	s.notify(eval)

	return &CreateResult{
		ReferenceNumber: eval.ReferenceNumber,
		ID:              eval.ID.Hex(),
	}, nil
}

// notify sends the access link asynchronously. Failure is logged and
// swallowed; it never propagates to the creator.
func (s *EvaluationService) notify(eval *models.Evaluation) {
	link := fmt.Sprintf("%s/evaluation/%s",
		strings.TrimSuffix(s.cfg.FrontendURL, "/"), eval.Token)
	email := eval.EmployeeEmail
	ref := eval.ReferenceNumber

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.SMTP.SendTimeout)
		defer cancel()

		if err := s.mailer.SendEvaluationLink(ctx, email, link, ref); err != nil {
			s.log.Warn("evaluation email failed",
				zap.String("referenceNumber", ref),
				zap.Error(err))
		}
	}()
}

// GetByToken is the only modality by which an employee reaches their
// evaluation. The returned record is their own full view, token included.
func (s *EvaluationService) GetByToken(ctx context.Context, token string) (*models.Evaluation, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	return s.store.FindByToken(ctx, token)
}

// Acknowledge records the employee's one-time sign-off. The store applies it
// as a single conditional update gated on acknowledged=false, so a repeat
// attempt (or a concurrent duplicate) surfaces as ErrAlreadyAcknowledged.
func (s *EvaluationService) Acknowledge(ctx context.Context, token string, req *models.AcknowledgeRequest) (*models.Evaluation, error) {
	if strings.TrimSpace(req.SignatureName) == "" {
		return nil, models.NewValidationError("signatureName", "Signature name is required")
	}

	eval, err := s.store.AcknowledgeByToken(ctx, token, *req)
	if errors.Is(err, models.ErrNotFound) {
		// Nothing matched the conditional filter: either the token is unknown
		// or the record is already acknowledged.
		existing, ferr := s.store.FindByToken(ctx, token)
		if ferr == nil && existing != nil {
			return nil, models.ErrAlreadyAcknowledged
		}
		if ferr != nil && !errors.Is(ferr, models.ErrNotFound) {
			return nil, ferr
		}
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return eval, nil
}

// Search runs the admin dashboard query. Tokens never appear in the results.
func (s *EvaluationService) Search(ctx context.Context, filters models.SearchFilters) ([]models.Evaluation, error) {
	return s.store.Search(ctx, filters)
}

func (s *EvaluationService) GetByID(ctx context.Context, id string) (*models.Evaluation, error) {
	return s.store.FindByID(ctx, id)
}
