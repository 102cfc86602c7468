package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
	"github.com/uipafrica/evaluation-backend/internal/models"
)

func TestMain(m *testing.M) {
	if err := SetLicenseKey(os.Getenv("UNIDOC_LICENSE_API_KEY")); err != nil {
		fmt.Fprintln(os.Stderr, "unidoc license:", err)
		os.Exit(1)
	}
	os.Exit(m.Run())
}

func sampleEvaluation() *models.Evaluation {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	return &models.Evaluation{
		ReferenceNumber:  "EVAL-TEST-0001",
		Token:            "deadbeef",
		EmployeeName:     "Jane Doe",
		JobTitle:         "Site Engineer",
		Department:       "Engineering",
		SupervisorName:   "John Smith",
		ReviewPeriodFrom: from,
		ReviewPeriodTo:   to,
		EmployeeEmail:    "jane.doe@example.com",
		PerformanceRatings: models.PerformanceRatings{
			QualityOfWork: 4, AttendancePunctuality: 5, Reliability: 4,
			CommunicationSkills: 3, DecisionMaking: 4, InitiativeFlexibility: 5,
			CooperationTeamwork: 4, KnowledgeOfPosition: 5, TechnicalSkills: 4,
			Innovation: 3, TrainingDevelopment: 4,
		},
		OverallPerformanceComments: "Consistently strong delivery.",
		SupervisorComments:         "Keep it up.",
	}
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	require.NoError(t, err)
	n, err := reader.GetNumPages()
	require.NoError(t, err)
	return n
}

func extractPageText(t *testing.T, data []byte, pageNum int) string {
	t.Helper()
	reader, err := model.NewPdfReader(bytes.NewReader(data))
	require.NoError(t, err)
	page, err := reader.GetPage(pageNum)
	require.NoError(t, err)
	ex, err := extractor.New(page)
	require.NoError(t, err)
	text, err := ex.ExtractText()
	require.NoError(t, err)
	return text
}

func TestRender_Layout(t *testing.T) {
	eval := sampleEvaluation()
	data, err := Render(eval)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	text := extractPageText(t, data, 1)
	assert.Contains(t, text, "Urban Infrastructure Projects Africa")
	assert.Contains(t, text, "Employee Information")
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "EVAL-TEST-0001")
	assert.Contains(t, text, "Performance Ratings (1-5 Scale)")
	assert.Contains(t, text, "Quality of Work")
	assert.Contains(t, text, "Training & Development")
	assert.Contains(t, text, "Acknowledgment")
}

func TestRender_FooterOnFirstPage(t *testing.T) {
	data, err := Render(sampleEvaluation())
	require.NoError(t, err)

	n := pageCount(t, data)
	text := extractPageText(t, data, 1)
	assert.Contains(t, text, "Page 1 of", "expected running footer; document has %d pages", n)
}

func TestRender_StablePageCount(t *testing.T) {
	eval := sampleEvaluation()

	first, err := Render(eval)
	require.NoError(t, err)
	second, err := Render(eval)
	require.NoError(t, err)

	assert.Equal(t, pageCount(t, first), pageCount(t, second))
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	eval := sampleEvaluation()
	before := *eval

	_, err := Render(eval)
	require.NoError(t, err)

	assert.Equal(t, before, *eval)
}

func TestRender_NoCommentsNotice(t *testing.T) {
	eval := sampleEvaluation()
	eval.OverallPerformanceComments = ""
	eval.SupervisorComments = ""
	eval.EmployeeComments = ""

	data, err := Render(eval)
	require.NoError(t, err)

	text := extractPageText(t, data, 1)
	assert.Contains(t, text, "No comments provided.")
	assert.NotContains(t, text, "Overall Performance Comments:")
	assert.NotContains(t, text, "Supervisor Comments:")
}

func TestRender_AcknowledgedBlock(t *testing.T) {
	eval := sampleEvaluation()
	signed := time.Date(2025, 7, 15, 14, 30, 0, 0, time.UTC)
	eval.Acknowledged = true
	eval.SignatureName = "Jane Doe"
	eval.SignatureTimestamp = &signed
	eval.EmployeeComments = "Thank you for the feedback."

	data, err := Render(eval)
	require.NoError(t, err)

	n := pageCount(t, data)
	var all strings.Builder
	for i := 1; i <= n; i++ {
		all.WriteString(extractPageText(t, data, i))
	}
	text := all.String()

	assert.Contains(t, text, "Signature Name:")
	assert.Contains(t, text, "July 15, 2025")
	assert.Contains(t, text, "Employee Comments:")
	assert.Contains(t, text, "Thank you for the feedback.")
}

func TestRender_LongCommentsOverflow(t *testing.T) {
	eval := sampleEvaluation()
	eval.OverallPerformanceComments = strings.TrimSpace(
		strings.Repeat("The employee demonstrated sustained attention to detail across all assigned projects this cycle. ", 120))

	data, err := Render(eval)
	require.NoError(t, err)

	n := pageCount(t, data)
	assert.Greater(t, n, 1, "long comments should overflow onto additional pages")

	last := extractPageText(t, data, n)
	assert.Contains(t, last, "Acknowledgment")
}
