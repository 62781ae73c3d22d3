// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data.
// Panels post form-encoded bodies and the API posts JSON; both go through
// RequestBodyParser so every command reads its fields the same way.

package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/core"

	"github.com/shopspring/decimal"
)

// maxBodyBytes bounds every request body.
const maxBodyBytes = 64 << 10

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON objects and form-encoded data.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser creates a parser for the given request.
// It reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body == nil {
		return p
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' || strings.HasPrefix(p.contentType, "application/json") {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = fmt.Errorf("decode JSON body: %w", err)
			return p.err
		}
		if dec.More() {
			p.err = fmt.Errorf("decode JSON body: trailing data")
			return p.err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	if p.err != nil {
		p.err = fmt.Errorf("decode form body: %w", p.err)
	}
	return p.err
}

// Get returns a string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

// stringValue converts a decoded JSON value to string.
func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// validationError collects every invalid field of one command.
type validationError struct {
	fields []string
}

func (e *validationError) Error() string {
	return strings.Join(e.fields, "; ")
}

// fieldReader reads typed fields and records a message for each bad one.
type fieldReader struct {
	src  interface{ Get(string) string }
	errs []string
}

func newFieldReader(src interface{ Get(string) string }) *fieldReader {
	return &fieldReader{src: src}
}

func (f *fieldReader) fail(format string, args ...any) {
	f.errs = append(f.errs, fmt.Sprintf(format, args...))
}

func (f *fieldReader) text(key string) string {
	return f.src.Get(key)
}

// amount reads a non-negative money amount; empty input is an error.
func (f *fieldReader) amount(key, label string) decimal.Decimal {
	d, err := core.ParseAmount(f.src.Get(key))
	if err != nil {
		f.fail("%s must be a non-negative number", label)
		return decimal.Zero
	}
	return d
}

// percent reads a non-negative percentage without rounding it.
func (f *fieldReader) percent(key, label string) decimal.Decimal {
	s := strings.ReplaceAll(f.src.Get(key), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		f.fail("%s must be a non-negative percentage", label)
		return decimal.Zero
	}
	return d
}

// years reads a whole number of years. Range checks are left to the
// finance package so zero reaches the division guard.
func (f *fieldReader) years(key, label string) int {
	n, err := strconv.Atoi(f.src.Get(key))
	if err != nil {
		f.fail("%s must be a whole number of years", label)
		return 0
	}
	return n
}

// date reads a YYYY-MM-DD date, defaulting to today when empty.
func (f *fieldReader) date(key string) core.Date {
	s := f.src.Get(key)
	if s == "" {
		return core.Today()
	}
	d, err := core.ParseDate(s)
	if err != nil {
		f.fail("date must use the YYYY-MM-DD format")
		return core.Date{}
	}
	return d
}

func (f *fieldReader) category(key string) core.Category {
	c, err := core.ParseCategory(f.src.Get(key))
	if err != nil {
		f.fail("category must be one of Food, Transport, Shopping, Rent, Other")
		return ""
	}
	return c
}

func (f *fieldReader) flag(key string) bool {
	switch strings.ToLower(f.src.Get(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func (f *fieldReader) err() error {
	if len(f.errs) == 0 {
		return nil
	}
	return &validationError{fields: f.errs}
}
