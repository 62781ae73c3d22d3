// Package web bundles the dashboard's templates and stylesheet into the
// binary.
package web

import "embed"

// TemplatesFS holds one template per panel plus the shared layout.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS is served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
