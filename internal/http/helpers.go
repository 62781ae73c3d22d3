package http

import (
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/finance"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/session"

	"github.com/shopspring/decimal"
)

// sanitizeInput removes control characters except tab, newline and
// carriage return, and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// isUserError reports whether err stems from bad input rather than a
// failing dependency.
func isUserError(err error) bool {
	var ve *validationError
	return errors.As(err, &ve) ||
		core.IsValidationError(err) ||
		errors.Is(err, finance.ErrInvalidInput) ||
		errors.Is(err, finance.ErrDivisionByZero)
}

// statusFor maps a command error to its HTTP status.
func statusFor(err error) int {
	switch {
	case isUserError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSessionClosed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// userMessage is the text shown to the user for err.
func userMessage(err error) string {
	switch {
	case errors.Is(err, finance.ErrDivisionByZero):
		return "timeframe must be at least one year"
	case isUserError(err):
		return err.Error()
	case errors.Is(err, session.ErrSessionClosed):
		return "your session has expired, please reload the page"
	default:
		return "something went wrong, please try again"
	}
}

// barWidth scales v against max to a percentage for CSS bars. Non-zero
// values get at least 2% so they stay visible.
func barWidth(v, max decimal.Decimal) int {
	v = v.Abs()
	if !max.IsPositive() || v.IsZero() {
		return 0
	}
	width := int(v.Mul(decimal.NewFromInt(100)).Div(max).Round(0).IntPart())
	if width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

// round2 rounds an amount for display and JSON output.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

func requestID(r *http.Request) string {
	return trace.GetRequestID(r.Context())
}
