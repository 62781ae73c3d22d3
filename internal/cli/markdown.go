package cli

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// DefaultWrap is the word-wrap width for rendered markdown.
const DefaultWrap = 80

// RenderMarkdown renders markdown for the terminal. Plain output uses the
// notty style so no escape sequences are emitted.
func RenderMarkdown(md string, plain bool, wrap int) (string, error) {
	if wrap <= 0 {
		wrap = DefaultWrap
	}
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(wrap)}
	if plain {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}
	tr, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := tr.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
