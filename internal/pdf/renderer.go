// Package pdf renders an evaluation record into a fixed-layout, paginated
// document. Rendering is a pure function of the record: no store or network
// access, input never mutated, so the admin download endpoint and any backend
// job produce identical output.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/unidoc/unipdf/v3/creator"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/uipafrica/evaluation-backend/internal/models"
)

const (
	companyName  = "Urban Infrastructure Projects Africa"
	formCode     = "UIPA-QA-R-ADM-4-024 Employee Evaluation Form"
	noComments   = "No comments provided."
	brandHex     = "#800020"
	mutedHex     = "#666666"
	ruleHex      = "#e0e0e0"
	pageMargin   = 50
	bottomMargin = 70
)

type ratingRow struct {
	label string
	value int
}

// Render produces the evaluation document: branded header, employee
// information, performance ratings, comments, acknowledgment, with a
// "Page X of N" footer on every page.
func Render(eval *models.Evaluation) ([]byte, error) {
	font, err := model.NewStandard14Font(model.HelveticaName)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	bold, err := model.NewStandard14Font(model.HelveticaBoldName)
	if err != nil {
		return nil, fmt.Errorf("load bold font: %w", err)
	}
	italic, err := model.NewStandard14Font(model.HelveticaObliqueName)
	if err != nil {
		return nil, fmt.Errorf("load italic font: %w", err)
	}

	c := creator.New()
	c.SetPageSize(creator.PageSizeLetter)
	c.SetPageMargins(pageMargin, pageMargin, pageMargin, bottomMargin)

	c.DrawFooter(func(block *creator.Block, args creator.FooterFunctionArgs) {
		p := c.NewParagraph(fmt.Sprintf("Page %d of %d", args.PageNum, args.TotalPages))
		p.SetFont(font)
		p.SetFontSize(8)
		p.SetColor(creator.ColorRGBFromHex(mutedHex))
		p.SetTextAlignment(creator.TextAlignmentCenter)
		p.SetWidth(block.Width())
		p.SetPos(0, 25)
		block.Draw(p)
	})

	c.NewPage()

	if err := drawHeader(c, font, bold); err != nil {
		return nil, err
	}
	if err := drawEmployeeInfo(c, font, bold, eval); err != nil {
		return nil, err
	}
	if err := drawRatings(c, font, bold, eval); err != nil {
		return nil, err
	}
	if err := drawComments(c, font, bold, italic, eval); err != nil {
		return nil, err
	}
	if err := drawAcknowledgment(c, font, bold, eval); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := c.Write(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(c *creator.Creator, font, bold *model.PdfFont) error {
	title := c.NewParagraph(companyName)
	title.SetFont(bold)
	title.SetFontSize(14)
	title.SetColor(creator.ColorRGBFromHex(brandHex))
	if err := c.Draw(title); err != nil {
		return err
	}

	subtitle := c.NewParagraph(formCode)
	subtitle.SetFont(font)
	subtitle.SetFontSize(10)
	subtitle.SetColor(creator.ColorRGBFromHex(mutedHex))
	subtitle.SetMargins(0, 0, 3, 10)
	if err := c.Draw(subtitle); err != nil {
		return err
	}

	rule := c.NewLine(pageMargin, c.Context().Y, c.Context().PageWidth-pageMargin, c.Context().Y)
	rule.SetLineWidth(2)
	rule.SetColor(creator.ColorRGBFromHex(brandHex))
	return c.Draw(rule)
}

func sectionTitle(c *creator.Creator, bold *model.PdfFont, text string) error {
	p := c.NewParagraph(text)
	p.SetFont(bold)
	p.SetFontSize(12)
	p.SetColor(creator.ColorRGBFromHex(brandHex))
	p.SetMargins(0, 0, 15, 10)
	return c.Draw(p)
}

func drawEmployeeInfo(c *creator.Creator, font, bold *model.PdfFont, eval *models.Evaluation) error {
	if err := sectionTitle(c, bold, "Employee Information"); err != nil {
		return err
	}

	period := fmt.Sprintf("%s to %s",
		formatDate(eval.ReviewPeriodFrom), formatDate(eval.ReviewPeriodTo))

	rows := [][2]string{
		{"Employee Name:", eval.EmployeeName},
		{"Job Title:", eval.JobTitle},
		{"Department:", eval.Department},
		{"Supervisor Name:", eval.SupervisorName},
		{"Review Period:", period},
		{"Employee Email:", eval.EmployeeEmail},
		{"Reference Number:", eval.ReferenceNumber},
	}

	table := c.NewTable(2)
	if err := table.SetColumnWidths(0.4, 0.6); err != nil {
		return err
	}
	for _, row := range rows {
		label := c.NewParagraph(row[0])
		label.SetFont(bold)
		label.SetFontSize(10)
		cell := table.NewCell()
		cell.SetIndent(0)
		if err := cell.SetContent(label); err != nil {
			return err
		}

		value := c.NewParagraph(row[1])
		value.SetFont(font)
		value.SetFontSize(10)
		cell = table.NewCell()
		cell.SetIndent(0)
		if err := cell.SetContent(value); err != nil {
			return err
		}
	}
	table.SetMargins(0, 0, 0, 5)
	return c.Draw(table)
}

func drawRatings(c *creator.Creator, font, bold *model.PdfFont, eval *models.Evaluation) error {
	if err := sectionTitle(c, bold, "Performance Ratings (1-5 Scale)"); err != nil {
		return err
	}

	r := eval.PerformanceRatings
	rows := []ratingRow{
		{"Quality of Work", r.QualityOfWork},
		{"Attendance & Punctuality", r.AttendancePunctuality},
		{"Reliability", r.Reliability},
		{"Communication Skills", r.CommunicationSkills},
		{"Decision Making", r.DecisionMaking},
		{"Initiative & Flexibility", r.InitiativeFlexibility},
		{"Cooperation & Teamwork", r.CooperationTeamwork},
		{"Knowledge of Position", r.KnowledgeOfPosition},
		{"Technical Skills", r.TechnicalSkills},
		{"Innovation", r.Innovation},
		{"Training & Development", r.TrainingDevelopment},
	}

	table := c.NewTable(2)
	if err := table.SetColumnWidths(0.7, 0.3); err != nil {
		return err
	}
	for _, row := range rows {
		label := c.NewParagraph(row.label + ":")
		label.SetFont(font)
		label.SetFontSize(10)
		cell := table.NewCell()
		cell.SetIndent(0)
		cell.SetBorder(creator.CellBorderSideBottom, creator.CellBorderStyleSingle, 0.5)
		cell.SetBorderColor(creator.ColorRGBFromHex(ruleHex))
		if err := cell.SetContent(label); err != nil {
			return err
		}

		value := c.NewParagraph(fmt.Sprintf("%d", row.value))
		value.SetFont(bold)
		value.SetFontSize(10)
		value.SetTextAlignment(creator.TextAlignmentRight)
		cell = table.NewCell()
		cell.SetIndent(0)
		cell.SetBorder(creator.CellBorderSideBottom, creator.CellBorderStyleSingle, 0.5)
		cell.SetBorderColor(creator.ColorRGBFromHex(ruleHex))
		cell.SetHorizontalAlignment(creator.CellHorizontalAlignmentRight)
		if err := cell.SetContent(value); err != nil {
			return err
		}
	}
	table.SetMargins(0, 0, 0, 5)
	return c.Draw(table)
}

func drawComments(c *creator.Creator, font, bold, italic *model.PdfFont, eval *models.Evaluation) error {
	if err := sectionTitle(c, bold, "Comments"); err != nil {
		return err
	}

	blocks := [][2]string{
		{"Overall Performance Comments:", eval.OverallPerformanceComments},
		{"Supervisor Comments:", eval.SupervisorComments},
		{"Employee Comments:", eval.EmployeeComments},
	}

	any := false
	for _, b := range blocks {
		if b[1] == "" {
			continue
		}
		any = true

		label := c.NewParagraph(b[0])
		label.SetFont(bold)
		label.SetFontSize(10)
		label.SetMargins(0, 0, 5, 5)
		if err := c.Draw(label); err != nil {
			return err
		}

		body := c.NewParagraph(b[1])
		body.SetFont(font)
		body.SetFontSize(10)
		body.SetLineHeight(1.4)
		body.SetMargins(10, 10, 0, 10)
		body.SetEnableWrap(true)
		if err := c.Draw(body); err != nil {
			return err
		}
	}

	if !any {
		notice := c.NewParagraph(noComments)
		notice.SetFont(italic)
		notice.SetFontSize(10)
		notice.SetColor(creator.ColorRGBFromHex(mutedHex))
		return c.Draw(notice)
	}
	return nil
}

func drawAcknowledgment(c *creator.Creator, font, bold *model.PdfFont, eval *models.Evaluation) error {
	if err := sectionTitle(c, bold, "Acknowledgment"); err != nil {
		return err
	}

	rows := [][2]string{
		{"Acknowledged:", yesNo(eval.Acknowledged)},
	}
	if eval.Acknowledged {
		rows = append(rows,
			[2]string{"Signature Name:", eval.SignatureName},
			[2]string{"Signature Date:", formatDateTime(eval.SignatureTimestamp)},
		)
	}

	table := c.NewTable(2)
	if err := table.SetColumnWidths(0.4, 0.6); err != nil {
		return err
	}
	for _, row := range rows {
		label := c.NewParagraph(row[0])
		label.SetFont(bold)
		label.SetFontSize(10)
		cell := table.NewCell()
		cell.SetIndent(0)
		if err := cell.SetContent(label); err != nil {
			return err
		}

		value := c.NewParagraph(row[1])
		value.SetFont(font)
		value.SetFontSize(10)
		cell = table.NewCell()
		cell.SetIndent(0)
		if err := cell.SetContent(value); err != nil {
			return err
		}
	}
	return c.Draw(table)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006")
}

func formatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return t.Format("January 2, 2006 3:04 PM")
}
