package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/session"
)

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	}).Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	if s.backend == nil {
		checks["record_backend"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else if err := s.backend.Ping(ctx); err != nil {
		checks["record_backend"] = fmt.Sprintf("failed: %v", err)
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["record_backend"] = "ok"
	}

	checks["sessions"] = map[string]any{
		"active": s.sessions.Stats().Active,
		"status": "ok",
	}
	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewResponse().Status(httpStatus).JSON(map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}).Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMiddleware.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	securityMetrics := s.securityDetector.GetMetrics()
	sessionStats := s.sessions.Stats()
	recordStats := s.records.Stats()

	var b bytes.Buffer
	metric := func(name, kind, help string, value any) {
		fmt.Fprintf(&b, "# HELP %s %s\n", name, help)
		fmt.Fprintf(&b, "# TYPE %s %s\n", name, kind)
		fmt.Fprintf(&b, "%s %v\n\n", name, value)
	}

	metric("http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	metric("http_server_errors_total", "counter", "Total number of 5xx responses", traceMetrics.TotalErrors)
	metric("entries_recorded_total", "counter", "Total number of expenses and investments recorded", recordStats.Recorded)
	metric("event_publish_failures_total", "counter", "Total number of activity events that failed to publish", recordStats.PublishFailures)
	metric("active_sessions", "gauge", "Currently active sessions", sessionStats.Active)
	metric("sessions_created_total", "counter", "Total sessions created", sessionStats.Created)
	metric("sessions_ended_total", "counter", "Total sessions ended or expired", sessionStats.Ended)
	metric("rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	metric("active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	metric("suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	metric("uptime_seconds", "gauge", "Application uptime in seconds", int64(time.Since(s.startedAt).Seconds()))

	NewResponse().BodyString(b.String()).Write(w)
}

// render executes a template into a buffer so a failing template never
// leaves a half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path,
			log.FieldComponent, log.ComponentTemplate,
			"error_type", log.ErrorTypeConfiguration)
		InternalServerError("templates not loaded").Write(w)
		return
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			log.FieldError, err,
			"template", name,
			log.FieldOperation, log.OpRender)
		InternalServerError("failed to render page").Write(w)
		return
	}
	NewResponse().Status(status).BodyHTML(buf.String()).Write(w)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "index.html", indexView{
		page:   s.newPage("Financial Empowerment Dashboard", "/"),
		Panels: panels,
	})
}

func (s *Server) handleEducation(w http.ResponseWriter, r *http.Request) {
	v := educationView{page: s.newPage("Financial Education", "/education")}
	if s.library != nil {
		v.Topics = s.library.Topics()
	}
	s.render(w, r, http.StatusOK, "education.html", v)
}

// parseBody parses the request body, answering 400 on failure.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request, api bool) (*RequestBodyParser, bool) {
	p := NewRequestBodyParser(w, r)
	if err := p.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Malformed request body",
			log.FieldError, err,
			log.FieldPath, r.URL.Path,
			log.FieldOperation, log.OpParse)
		if api {
			JSONError(http.StatusBadRequest, "malformed request body").Write(w)
		} else {
			ErrorResponse(http.StatusBadRequest, "Malformed request").Write(w)
		}
		return nil, false
	}
	return p, true
}

// logCommandError logs failures that are not the user's fault.
func (s *Server) logCommandError(r *http.Request, msg string, err error, op string) {
	if isUserError(err) || errors.Is(err, session.ErrSessionClosed) {
		s.logger.DebugContext(r.Context(), msg, log.FieldError, err, log.FieldOperation, log.OpValidate)
		return
	}
	log.NewStructuredLogger(s.logger).LogError(r.Context(), msg, err, log.ComponentHTTP, op, log.NewFields().WithRequestID(requestID(r)))
}
