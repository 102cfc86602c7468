package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"github.com/uipafrica/evaluation-backend/internal/services"
	"github.com/uipafrica/evaluation-backend/utils"
)

type Handler struct {
	svc *services.EvaluationService
}

func New(svc *services.EvaluationService) *Handler {
	return &Handler{svc: svc}
}

// CreateEvaluation handles the supervisor's submission of a new form.
func (h *Handler) CreateEvaluation(c *fiber.Ctx) error {
	var req models.CreateEvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	result, err := h.svc.Create(c.Context(), &req)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			return utils.ValidationErrorResponse(c, verr.Errors)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error creating evaluation")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Evaluation created successfully",
		"data":    result,
	})
}

// GetEvaluationByToken returns the employee's own evaluation. Possession of
// the token is the entire access policy.
func (h *Handler) GetEvaluationByToken(c *fiber.Ctx) error {
	eval, err := h.svc.GetByToken(c.Context(), c.Params("token"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Evaluation not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching evaluation")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    eval,
	})
}

// AcknowledgeEvaluation records the one-time employee sign-off.
func (h *Handler) AcknowledgeEvaluation(c *fiber.Ctx) error {
	var req models.AcknowledgeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body")
	}

	eval, err := h.svc.Acknowledge(c.Context(), c.Params("token"), &req)
	if err != nil {
		var verr *models.ValidationError
		switch {
		case errors.As(err, &verr):
			return utils.ValidationErrorResponse(c, verr.Errors)
		case errors.Is(err, models.ErrNotFound):
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Evaluation not found")
		case errors.Is(err, models.ErrAlreadyAcknowledged):
			return utils.ErrorResponse(c, fiber.StatusConflict, "Evaluation has already been acknowledged")
		default:
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error acknowledging evaluation")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Evaluation acknowledged successfully",
		"data":    eval,
	})
}

// ErrorHandler is the app-level Fiber error handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}
