package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hrms/internal/app/server"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/domain/registration"
	"hrms/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Environment:     "test",
		StorageDriver:   config.DriverMemory,
		StorageKey:      "hrms_employees",
		FrontendDir:     t.TempDir(),
		MaxBodyBytes:    1048576,
		TokenTTL:        time.Hour,
		MetricsEnabled:  true,
		LoginRateLimit:  100,
		LoginRateWindow: time.Minute,
	}
}

func startApp(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	ts := httptest.NewServer(app.Router)
	t.Cleanup(func() {
		ts.Close()
		app.Close()
	})
	return ts
}

func call(t *testing.T, ts *httptest.Server, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &env)
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
	return out
}

func annPayload() map[string]any {
	return map[string]any{
		"firstName":             "Ann",
		"surname":               "Lee",
		"dateOfBirth":           "1990-01-01",
		"gender":                "Female",
		"position":              "Dev",
		"department":            "IT",
		"salary":                50000,
		"startDate":             "2020-01-01",
		"email":                 "ann@x.com",
		"phoneNumber":           "0123456789",
		"address":               "1 Road",
		"emergencyContactName":  "Bo",
		"emergencyContactPhone": "0987654321",
	}
}

func TestEmployeeLifecycleJourney(t *testing.T) {
	ts := startApp(t, testConfig(t))

	status, env := call(t, ts, http.MethodGet, "/api/v1/employees", "", nil)
	if status != http.StatusOK || len(decode[[]employee.Employee](t, env)) != 0 {
		t.Fatalf("expected empty list, got %d %s", status, env.Data)
	}

	status, env = call(t, ts, http.MethodPost, "/api/v1/employees", "", annPayload())
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", status)
	}
	created := decode[employee.Employee](t, env)
	if !strings.HasPrefix(created.ID, "EMP-") || created.Email != "ann@x.com" {
		t.Fatalf("unexpected created record %+v", created)
	}
	if env.RequestID == "" {
		t.Fatal("expected request id in envelope")
	}

	dup := annPayload()
	dup["email"] = "ANN@X.COM"
	if status, env = call(t, ts, http.MethodPost, "/api/v1/employees", "", dup); status != http.StatusConflict || env.Error.Code != "email_taken" {
		t.Fatalf("duplicate email: expected 409 email_taken, got %d %+v", status, env.Error)
	}

	status, env = call(t, ts, http.MethodGet, "/api/v1/employees/email-availability?email=ann@x.com&excludeId="+created.ID, "", nil)
	if status != http.StatusOK || !decode[map[string]bool](t, env)["available"] {
		t.Fatalf("own email should be available when excluded, got %d %s", status, env.Data)
	}

	update := annPayload()
	update["id"] = "EMP-ignored"
	update["salary"] = 60000
	status, env = call(t, ts, http.MethodPut, "/api/v1/employees/"+created.ID, "", update)
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d %+v", status, env.Error)
	}
	if updated := decode[employee.Employee](t, env); updated.ID != created.ID || updated.Salary != 60000 {
		t.Fatalf("unexpected updated record %+v", updated)
	}

	status, env = call(t, ts, http.MethodGet, "/api/v1/dashboard", "", nil)
	summary := decode[employee.Summary](t, env)
	if status != http.StatusOK || summary.Total != 1 || summary.Departments[0].Count != 1 {
		t.Fatalf("unexpected dashboard %d %+v", status, summary)
	}

	resp, err := ts.Client().Get(ts.URL + "/api/v1/employees/" + created.ID + "/document")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	pdf, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || resp.Header.Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("unexpected document response %d %s", resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	status, env = call(t, ts, http.MethodDelete, "/api/v1/employees/"+created.ID, "", nil)
	if status != http.StatusOK || len(decode[[]employee.Employee](t, env)) != 0 {
		t.Fatalf("delete: unexpected %d %s", status, env.Data)
	}
	if status, env = call(t, ts, http.MethodGet, "/api/v1/employees/"+created.ID, "", nil); status != http.StatusNotFound || env.Error.Code != "not_found" {
		t.Fatalf("expected 404 not_found after delete, got %d", status)
	}
	if status, _ = call(t, ts, http.MethodDelete, "/api/v1/employees/EMP-never", "", nil); status != http.StatusOK {
		t.Fatalf("deleting an unknown id should succeed, got %d", status)
	}
}

func TestEmployeeValidationAndNotFound(t *testing.T) {
	ts := startApp(t, testConfig(t))

	bad := annPayload()
	bad["salary"] = 0
	bad["email"] = "nope"
	status, env := call(t, ts, http.MethodPost, "/api/v1/employees", "", bad)
	if status != http.StatusBadRequest || env.Error.Code != "validation_error" {
		t.Fatalf("expected 400 validation_error, got %d %+v", status, env.Error)
	}
	fields, _ := env.Error.Details["fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected two field issues, got %v", env.Error.Details)
	}

	if status, env = call(t, ts, http.MethodPut, "/api/v1/employees/EMP-missing", "", annPayload()); status != http.StatusNotFound {
		t.Fatalf("expected 404 for missing update, got %d", status)
	}

	unknown := annPayload()
	unknown["nickname"] = "Annie"
	if status, env = call(t, ts, http.MethodPost, "/api/v1/employees", "", unknown); status != http.StatusBadRequest || env.Error.Code != "invalid_payload" {
		t.Fatalf("expected invalid_payload for unknown field, got %d", status)
	}

	if status, _ = call(t, ts, http.MethodGet, "/api/v1/employees/email-availability", "", nil); status != http.StatusBadRequest {
		t.Fatalf("expected 400 without email, got %d", status)
	}
}

func TestRegistrationStepValidation(t *testing.T) {
	ts := startApp(t, testConfig(t))

	status, env := call(t, ts, http.MethodPost, "/api/v1/registration/steps/1/validate", "", annPayload())
	result := decode[map[string]any](t, env)
	if status != http.StatusOK || result["valid"] != true || result["nextStep"] != float64(2) {
		t.Fatalf("unexpected step result %d %v", status, result)
	}

	status, env = call(t, ts, http.MethodPost, "/api/v1/registration/steps/job/validate", "", map[string]any{"position": "D"})
	result = decode[map[string]any](t, env)
	if status != http.StatusOK || result["valid"] != false || result["nextStep"] != float64(2) {
		t.Fatalf("unexpected step result %d %v", status, result)
	}

	if status, _ = call(t, ts, http.MethodPost, "/api/v1/registration/steps/9/validate", "", annPayload()); status != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown step, got %d", status)
	}
}

func TestOperatorAuthProtectsMutations(t *testing.T) {
	hash, err := auth.HashPassword("ChangeMe123!")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := testConfig(t)
	cfg.JWTSecret = "test-secret"
	cfg.OperatorEmail = "hr@test.local"
	cfg.OperatorPasswordHash = hash
	ts := startApp(t, cfg)

	if status, env := call(t, ts, http.MethodPost, "/api/v1/employees", "", annPayload()); status != http.StatusUnauthorized || env.Error.Code != "unauthorized" {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if status, _ := call(t, ts, http.MethodGet, "/api/v1/employees", "", nil); status != http.StatusOK {
		t.Fatalf("reads stay open, got %d", status)
	}
	if status, env := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "hr@test.local", "password": "wrong"}); status != http.StatusUnauthorized || env.Error.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %d", status)
	}

	status, env := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "hr@test.local", "password": "ChangeMe123!"})
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", status)
	}
	token := decode[auth.Token](t, env)
	if token.Token == "" {
		t.Fatal("expected token")
	}

	if status, env = call(t, ts, http.MethodPost, "/api/v1/employees", token.Token, annPayload()); status != http.StatusCreated {
		t.Fatalf("create with token: expected 201, got %d %+v", status, env.Error)
	}
}

func TestLoginRouteAbsentWithoutAuth(t *testing.T) {
	ts := startApp(t, testConfig(t))
	if status, _ := call(t, ts, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "a", "password": "b"}); status != http.StatusNotFound {
		t.Fatalf("expected 404 when auth is disabled, got %d", status)
	}
}

func TestProbesMetricsAndFrontend(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.FrontendDir, "index.html"), []byte("<html>hrms</html>"), 0o600); err != nil {
		t.Fatalf("write index: %v", err)
	}
	ts := startApp(t, cfg)

	// metrics last so earlier requests have been counted
	for _, probe := range []struct{ path, want string }{
		{"/healthz", "ok"},
		{"/readyz", "ready"},
		{"/employees/new", "<html>hrms</html>"},
		{"/metrics", "hrms_http_requests_total"},
	} {
		path, want := probe.path, probe.want
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), want) {
			t.Fatalf("%s: unexpected %d %q", path, resp.StatusCode, body)
		}
	}
}

func TestReadyzReportsCorruptStrictStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.StorageDriver = config.DriverFile
	cfg.StorageDir = t.TempDir()
	cfg.StoreStrict = true
	if err := os.WriteFile(filepath.Join(cfg.StorageDir, "hrms_employees.json"), []byte("{broken"), 0o600); err != nil {
		t.Fatalf("write blob: %v", err)
	}
	ts := startApp(t, cfg)

	resp, err := ts.Client().Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for corrupt blob, got %d", resp.StatusCode)
	}

	if status, env := call(t, ts, http.MethodPost, "/api/v1/employees", "", annPayload()); status != http.StatusInternalServerError || env.Error.Code != "employee_data_corrupt" {
		t.Fatalf("strict store must refuse to overwrite, got %d", status)
	}
}

func TestContactStepRejectsTakenEmail(t *testing.T) {
	ts := startApp(t, testConfig(t))

	status, env := call(t, ts, http.MethodPost, "/api/v1/employees", "", annPayload())
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", status)
	}
	created := decode[employee.Employee](t, env)

	draft := annPayload()
	draft["email"] = "ANN@x.com"
	status, env = call(t, ts, http.MethodPost, "/api/v1/registration/steps/3/validate", "", draft)
	result := decode[registration.StepResult](t, env)
	if status != http.StatusOK || result.Valid || result.NextStep != registration.StepContact {
		t.Fatalf("expected taken email to fail the contact step, got %d %+v", status, result)
	}
	if len(result.Issues) != 1 || result.Issues[0].Field != "email" || result.Issues[0].Reason != "This email is already registered." {
		t.Fatalf("unexpected issues %+v", result.Issues)
	}

	draft["id"] = created.ID
	status, env = call(t, ts, http.MethodPost, "/api/v1/registration/steps/contact/validate", "", draft)
	result = decode[registration.StepResult](t, env)
	if status != http.StatusOK || !result.Valid || len(result.Issues) != 0 {
		t.Fatalf("edited record must keep its own email, got %d %+v", status, result)
	}
}
