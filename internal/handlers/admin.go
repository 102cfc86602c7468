package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"github.com/uipafrica/evaluation-backend/internal/pdf"
	"github.com/uipafrica/evaluation-backend/utils"
)

// SearchEvaluations serves the admin dashboard listing. All filters are
// optional; with none supplied every record is returned, newest first. The
// access token is stripped at the store layer and never reaches this payload.
func (h *Handler) SearchEvaluations(c *fiber.Ctx) error {
	filters := models.SearchFilters{
		EmployeeName: c.Query("employeeName"),
		Department:   c.Query("department"),
		Search:       c.Query("search"),
	}

	// invalid dates are ignored rather than rejected, matching the dashboard
	if v := c.Query("reviewPeriodFrom"); v != "" {
		if t, err := models.ParseDate(v); err == nil {
			filters.ReviewPeriodFrom = &t
		}
	}
	if v := c.Query("reviewPeriodTo"); v != "" {
		if t, err := models.ParseDate(v); err == nil {
			filters.ReviewPeriodTo = &t
		}
	}

	evaluations, err := h.svc.Search(c.Context(), filters)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching evaluations")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(evaluations),
		"data":    evaluations,
	})
}

// GetEvaluationByID returns a single record for the admin detail view.
func (h *Handler) GetEvaluationByID(c *fiber.Ctx) error {
	eval, err := h.svc.GetByID(c.Context(), c.Params("id"))
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

// DownloadEvaluationPDF streams the rendered document as an attachment.
func (h *Handler) DownloadEvaluationPDF(c *fiber.Ctx) error {
	eval, err := h.svc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Evaluation not found")
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error fetching evaluation")
	}

	data, err := pdf.Render(eval)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Error generating PDF")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="evaluation-%s.pdf"`, eval.ReferenceNumber))
	return c.Send(data)
}
