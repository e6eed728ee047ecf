package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Iron-Ham/remedy/internal/cleanup"
	"github.com/Iron-Ham/remedy/internal/errors"
	"github.com/Iron-Ham/remedy/internal/ingest"
	"github.com/Iron-Ham/remedy/internal/logging"
	"github.com/Iron-Ham/remedy/internal/report"
)

const (
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is the error message.
	Error string `json:"error"`
	// Code is a stable machine-readable error code.
	Code string `json:"code"`
	// Details lists individual field failures, if any.
	Details []string `json:"details,omitempty"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

func (s *Server) requestMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		logger := s.logger.WithRequest(requestID)
		c.Set(loggerKey, logger)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		s.metrics.ObserveRequest(route, c.Writer.Status(), elapsed)
		logger.Debug("request handled",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration_ms", elapsed.Milliseconds())
	}
}

func requestLogger(c *gin.Context) *logging.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if logger, ok := v.(*logging.Logger); ok {
			return logger
		}
	}
	return logging.NopLogger()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: s.opts.Version})
}

// handleCreatePlan handles POST /v1/plans.
//
// The body is an analysis document; Content-Type application/yaml (or
// text/yaml, application/x-yaml) selects YAML, anything else is read as
// JSON. ?format=markdown|text|yaml returns a rendered report instead of
// the JSON plan.
func (s *Server) handleCreatePlan(c *gin.Context) {
	logger := requestLogger(c)

	outFormat := report.FormatJSON
	if f := c.Query("format"); f != "" {
		parsed, err := report.ParseFormat(f)
		if err != nil {
			s.fail(c, err)
			return
		}
		outFormat = parsed
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
	in, err := ingest.Decode(body, requestFormat(c), s.opts.Ingest)
	if err != nil {
		logger.Warn("rejected analysis document", "error", err)
		s.fail(c, err)
		return
	}

	plan := s.opts.Planner.GeneratePlan(in.Classified, in.Patterns)
	s.metrics.Observe(plan)
	logger.Info("plan generated",
		"issues", in.Classified.Len(),
		"patterns", len(in.Patterns),
		"tasks", len(plan.Tasks),
		"risk", plan.RiskAssessment.OverallRisk)
	for _, d := range plan.Diagnostics {
		logger.Warn("plan diagnostic", "code", d.Code, "message", d.Message)
	}

	if outFormat == report.FormatJSON {
		c.JSON(http.StatusOK, plan)
		return
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, plan, outFormat, report.Options{}); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType(outFormat), buf.Bytes())
}

// handleValidatePlan handles POST /v1/plans/validate. It answers 200 with
// the result for a valid plan and 422 with the result for an invalid one.
func (s *Server) handleValidatePlan(c *gin.Context) {
	var plan cleanup.CleanupPlan
	body := http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		s.fail(c, errors.NewInputError("failed to read plan", err))
		return
	}
	if err := json.Unmarshal(data, &plan); err != nil {
		s.fail(c, errors.NewInputError("failed to decode plan", err).WithFormat("json"))
		return
	}

	result := cleanup.ValidatePlan(&plan)
	status := http.StatusOK
	if !result.IsValid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, result)
}

func requestFormat(c *gin.Context) ingest.Format {
	mediaType, _, _ := mime.ParseMediaType(c.GetHeader("Content-Type"))
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml":
		return ingest.FormatYAML
	default:
		return ingest.FormatJSON
	}
}

func contentType(f report.Format) string {
	switch f {
	case report.FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case report.FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

// fail maps err to a status code and writes an ErrorResponse.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		status, code = http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE"
	case errors.Is(err, errors.ErrUnsupportedFormat):
		status, code = http.StatusBadRequest, "UNSUPPORTED_FORMAT"
	case errors.Is(err, errors.ErrInvalidInput):
		status, code = http.StatusBadRequest, "INVALID_INPUT"
	}

	resp := ErrorResponse{Error: err.Error(), Code: code}
	for _, verr := range errors.ValidationErrors(err) {
		resp.Details = append(resp.Details, verr.Error())
	}
	if status == http.StatusInternalServerError && !errors.IsUserFacing(err) {
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(status, resp)
}
