package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uipafrica/evaluation-backend/internal/config"
	"github.com/uipafrica/evaluation-backend/internal/models"
	"github.com/uipafrica/evaluation-backend/internal/pdf"
	"github.com/uipafrica/evaluation-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// the PDF download route renders through unipdf, which needs the license
	if key := os.Getenv("UNIDOC_LICENSE_API_KEY"); key != "" {
		if err := pdf.SetLicenseKey(key); err != nil {
			fmt.Fprintln(os.Stderr, "unidoc license:", err)
			os.Exit(1)
		}
	}
	os.Exit(m.Run())
}

// In-memory store mirroring the Mongo implementation's behavior, including
// the conditional acknowledge and token stripping on admin reads.
type fakeStore struct {
	mu      sync.Mutex
	byToken map[string]*models.Evaluation
}

func newFakeStore() *fakeStore {
	return &fakeStore{byToken: map[string]*models.Evaluation{}}
}

func (f *fakeStore) Insert(ctx context.Context, eval *models.Evaluation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval.ID = primitive.NewObjectID()
	cp := *eval
	f.byToken[eval.Token] = &cp
	return nil
}

func (f *fakeStore) FindByToken(ctx context.Context, token string) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eval, ok := f.byToken[token]; ok {
		cp := *eval
		return &cp, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) AcknowledgeByToken(ctx context.Context, token string, ack models.AcknowledgeRequest) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	eval, ok := f.byToken[token]
	if !ok || eval.Acknowledged {
		return nil, models.ErrNotFound
	}
	now := time.Now()
	eval.EmployeeComments = ack.EmployeeComments
	eval.SignatureName = ack.SignatureName
	eval.SignatureTimestamp = &now
	eval.Acknowledged = true
	eval.UpdatedAt = now
	cp := *eval
	return &cp, nil
}

func (f *fakeStore) Search(ctx context.Context, filters models.SearchFilters) ([]models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Evaluation, 0, len(f.byToken))
	for _, eval := range f.byToken {
		if filters.Department != "" &&
			!strings.Contains(strings.ToLower(eval.Department), strings.ToLower(filters.Department)) {
			continue
		}
		cp := *eval
		cp.Token = ""
		out = append(out, cp)
	}
	// newest first, like the Mongo store's createdAt sort
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeStore) FindByID(ctx context.Context, id string) (*models.Evaluation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, eval := range f.byToken {
		if eval.ID.Hex() == id {
			cp := *eval
			cp.Token = ""
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) anyToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for token := range f.byToken {
		return token
	}
	t.Fatal("no evaluation in store")
	return ""
}

type noopMailer struct{}

func (noopMailer) SendEvaluationLink(ctx context.Context, toEmail, link, referenceNumber string) error {
	return nil
}

func newTestApp(st *fakeStore) *fiber.App {
	cfg := &config.Config{
		FrontendURL:   "http://localhost:3000",
		AdminPassword: "secret",
		SMTP:          config.SMTPConfig{SendTimeout: time.Second},
	}
	svc := services.NewEvaluationService(st, noopMailer{}, cfg, zap.NewNop())
	h := New(svc)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})

	api := app.Group("/api")
	evaluations := api.Group("/evaluations")
	evaluations.Post("/create", h.CreateEvaluation)
	evaluations.Get("/token/:token", h.GetEvaluationByToken)
	evaluations.Post("/acknowledge/:token", h.AcknowledgeEvaluation)

	admin := api.Group("/admin")
	admin.Use(AdminAuth(cfg))
	admin.Get("/evaluations", h.SearchEvaluations)
	admin.Get("/evaluations/:id", h.GetEvaluationByID)
	admin.Get("/evaluations/:id/pdf", h.DownloadEvaluationPDF)

	return app
}

func createPayload() map[string]interface{} {
	return map[string]interface{}{
		"employeeName":     "Jane Doe",
		"jobTitle":         "Site Engineer",
		"department":       "Engineering",
		"supervisorName":   "John Smith",
		"reviewPeriodFrom": "2025-01-01",
		"reviewPeriodTo":   "2025-06-30",
		"employeeEmail":    "jane.doe@example.com",
		"performanceRatings": map[string]int{
			"qualityOfWork": 4, "attendancePunctuality": 5, "reliability": 4,
			"communicationSkills": 3, "decisionMaking": 4, "initiativeFlexibility": 5,
			"cooperationTeamwork": 4, "knowledgeOfPosition": 5, "technicalSkills": 4,
			"innovation": 3, "trainingDevelopment": 4,
		},
		"overallPerformanceComments": "Solid cycle.",
	}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, payload interface{}, headers map[string]string) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestCreateEvaluation_Created(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	resp := doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Contains(t, data["referenceNumber"], "EVAL-")
	assert.NotEmpty(t, data["id"])
}

func TestCreateEvaluation_ValidationErrors(t *testing.T) {
	app := newTestApp(newFakeStore())

	payload := createPayload()
	payload["performanceRatings"].(map[string]int)["qualityOfWork"] = 6
	payload["employeeName"] = ""

	resp := doJSON(t, app, "POST", "/api/evaluations/create", payload, nil)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errs := body["errors"].([]interface{})
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.(map[string]interface{})["field"].(string))
	}
	assert.Contains(t, fields, "employeeName")
	assert.Contains(t, fields, "performanceRatings.qualityOfWork")
}

func TestCreateEvaluation_MalformedBody(t *testing.T) {
	app := newTestApp(newFakeStore())

	req := httptest.NewRequest("POST", "/api/evaluations/create", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGetEvaluationByToken(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)
	token := st.anyToken(t)

	resp := doJSON(t, app, "GET", "/api/evaluations/token/"+token, nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", data["employeeName"])
	assert.Equal(t, false, data["acknowledged"])

	resp = doJSON(t, app, "GET", "/api/evaluations/token/doesnotexist", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAcknowledgeEvaluation_FullFlow(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)
	token := st.anyToken(t)

	// empty signature
	resp := doJSON(t, app, "POST", "/api/evaluations/acknowledge/"+token,
		map[string]string{"signatureName": ""}, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// success
	resp = doJSON(t, app, "POST", "/api/evaluations/acknowledge/"+token,
		map[string]string{"signatureName": "Jane Doe", "employeeComments": "Agreed."}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.Equal(t, true, data["acknowledged"])
	assert.Equal(t, "Jane Doe", data["signatureName"])

	// repeat conflicts
	resp = doJSON(t, app, "POST", "/api/evaluations/acknowledge/"+token,
		map[string]string{"signatureName": "Jane Doe"}, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// unknown token
	resp = doJSON(t, app, "POST", "/api/evaluations/acknowledge/unknown",
		map[string]string{"signatureName": "Jane Doe"}, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminRoutes_RequirePassword(t *testing.T) {
	app := newTestApp(newFakeStore())

	resp := doJSON(t, app, "GET", "/api/admin/evaluations", nil, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/admin/evaluations", nil,
		map[string]string{"X-Admin-Password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/admin/evaluations", nil,
		map[string]string{"X-Admin-Password": "secret"})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAdminSearch_StripsToken(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)

	resp := doJSON(t, app, "GET", "/api/admin/evaluations?department=engineering", nil,
		map[string]string{"X-Admin-Password": "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"token"`)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, float64(1), body["count"])
}

func TestAdminSearch_NewestFirst(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, name := range []string{"Oldest", "Middle", "Newest"} {
		require.NoError(t, st.Insert(context.Background(), &models.Evaluation{
			EmployeeName: name,
			Token:        fmt.Sprintf("token-%d", i),
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	resp := doJSON(t, app, "GET", "/api/admin/evaluations", nil,
		map[string]string{"X-Admin-Password": "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data, ok := body["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, data, 3)

	names := make([]string, 0, len(data))
	for _, item := range data {
		names = append(names, item.(map[string]interface{})["employeeName"].(string))
	}
	assert.Equal(t, []string{"Newest", "Middle", "Oldest"}, names)
}

func TestAdminGetByID(t *testing.T) {
	st := newFakeStore()
	app := newTestApp(st)

	resp := doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)
	id := decodeBody(t, resp)["data"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, "GET", "/api/admin/evaluations/"+id, nil,
		map[string]string{"X-Admin-Password": "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "Jane Doe", data["employeeName"])
	assert.NotContains(t, data, "token")

	resp = doJSON(t, app, "GET", "/api/admin/evaluations/"+primitive.NewObjectID().Hex(), nil,
		map[string]string{"X-Admin-Password": "secret"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAdminDownloadPDF(t *testing.T) {
	if os.Getenv("UNIDOC_LICENSE_API_KEY") == "" {
		t.Skip("UNIDOC_LICENSE_API_KEY not set")
	}
	st := newFakeStore()
	app := newTestApp(st)

	resp := doJSON(t, app, "POST", "/api/evaluations/create", createPayload(), nil)
	id := decodeBody(t, resp)["data"].(map[string]interface{})["id"].(string)

	resp = doJSON(t, app, "GET", "/api/admin/evaluations/"+id+"/pdf", nil,
		map[string]string{"X-Admin-Password": "secret"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "evaluation-EVAL-")

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}
