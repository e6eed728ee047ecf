package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Iron-Ham/remedy/internal/cleanup"
)

func init() {
	// Set Gin to test mode to reduce noise
	gin.SetMode(gin.TestMode)
}

const document = `{
  "issues": [
    {"id": "i1", "file": "src/types/user.ts", "category": "types", "severity": "high", "estimatedEffort": "small", "description": "any in User"},
    {"id": "i2", "file": "src/services/user.ts", "category": "services", "severity": "medium", "estimatedEffort": "medium", "description": "god service"}
  ]
}`

func newTestServer(opts Options) *Server {
	if opts.Planner == nil {
		opts.Planner = cleanup.NewPlanner(cleanup.WithSequentialIDs("task"))
	}
	return New(opts)
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(Options{Version: "1.2.3"})
	w := do(t, s, http.MethodGet, "/healthz", "", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	var resp HealthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Status != "ok" || resp.Version != "1.2.3" {
		t.Errorf("response = %+v", resp)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("response is missing a request id")
	}
}

func TestHandleCreatePlan_JSON(t *testing.T) {
	s := newTestServer(Options{})
	w := do(t, s, http.MethodPost, "/v1/plans", "application/json", document)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var plan cleanup.CleanupPlan
	if err := json.Unmarshal(w.Body.Bytes(), &plan); err != nil {
		t.Fatalf("failed to unmarshal plan: %v", err)
	}
	if len(plan.Tasks) != 2 || plan.Tasks[0].Category != cleanup.CategoryTypes {
		t.Errorf("tasks = %+v", plan.Tasks)
	}
	if plan.EstimatedDuration == "" || plan.RiskAssessment.OverallRisk != cleanup.RiskMedium {
		t.Errorf("duration %q, risk %q", plan.EstimatedDuration, plan.RiskAssessment.OverallRisk)
	}
}

func TestHandleCreatePlan_YAMLBody(t *testing.T) {
	s := newTestServer(Options{})
	body := "issues:\n  - {id: i1, file: a.ts, category: general, severity: low, estimatedEffort: trivial}\n"
	w := do(t, s, http.MethodPost, "/v1/plans", "application/yaml; charset=utf-8", body)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
}

func TestHandleCreatePlan_Markdown(t *testing.T) {
	s := newTestServer(Options{})
	w := do(t, s, http.MethodPost, "/v1/plans?format=markdown", "application/json", document)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "## Phase 1: Foundation") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestHandleCreatePlan_Errors(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		body        string
		maxBody     int64
		wantStatus  int
		wantCode    string
		wantDetails int
	}{
		{
			name:       "malformed JSON",
			target:     "/v1/plans",
			body:       `{"issues": [`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:       "empty body",
			target:     "/v1/plans",
			body:       "",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_INPUT",
		},
		{
			name:        "validation failures",
			target:      "/v1/plans",
			body:        `{"issues": [{"id": "i1", "file": "a.ts", "category": "ui", "severity": "urgent", "estimatedEffort": "small"}]}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    "INVALID_INPUT",
			wantDetails: 2,
		},
		{
			name:       "unknown output format",
			target:     "/v1/plans?format=html",
			body:       document,
			wantStatus: http.StatusBadRequest,
			wantCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:       "body too large",
			target:     "/v1/plans",
			body:       document,
			maxBody:    16,
			wantStatus: http.StatusRequestEntityTooLarge,
			wantCode:   "BODY_TOO_LARGE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(Options{MaxBodyBytes: tt.maxBody})
			w := do(t, s, http.MethodPost, tt.target, "application/json", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to unmarshal error: %v", err)
			}
			if resp.Code != tt.wantCode || resp.Error == "" {
				t.Errorf("response = %+v, want code %s", resp, tt.wantCode)
			}
			if len(resp.Details) != tt.wantDetails {
				t.Errorf("details = %v, want %d entries", resp.Details, tt.wantDetails)
			}
		})
	}
}

func TestHandleValidatePlan(t *testing.T) {
	s := newTestServer(Options{})
	planBody := do(t, s, http.MethodPost, "/v1/plans", "application/json", document).Body.String()

	w := do(t, s, http.MethodPost, "/v1/plans/validate", "application/json", planBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}
	var result cleanup.ValidationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatal(err)
	}
	if !result.IsValid {
		t.Errorf("generated plan reported invalid: %+v", result)
	}

	// A task depending on a missing task makes the plan invalid.
	var plan cleanup.CleanupPlan
	if err := json.Unmarshal([]byte(planBody), &plan); err != nil {
		t.Fatal(err)
	}
	plan.Tasks[0].Dependencies = []string{"ghost"}
	broken, _ := json.Marshal(plan)

	w = do(t, s, http.MethodPost, "/v1/plans/validate", "application/json", string(broken))
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, w.Code)
	}

	w = do(t, s, http.MethodPost, "/v1/plans/validate", "application/json", "not json")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for garbage, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(Options{})
	do(t, s, http.MethodPost, "/v1/plans", "application/json", document)
	do(t, s, http.MethodPost, "/v1/plans", "application/json", "{")

	w := do(t, s, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`remedy_http_requests_total{code="200",route="/v1/plans"} 1`,
		`remedy_http_requests_total{code="400",route="/v1/plans"} 1`,
		`remedy_plan_tasks{phase="Services"} 1`,
		`remedy_plans_generated_total 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRequestIDPropagated(t *testing.T) {
	s := newTestServer(Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("%s = %q, want abc-123", requestIDHeader, got)
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	_ = ln.Close()

	s := newTestServer(Options{Addr: addr})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Post("http://"+addr+"/v1/plans", "application/json", bytes.NewBufferString(document))
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
