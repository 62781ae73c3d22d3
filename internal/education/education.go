// Package education serves the embedded financial education topics.
package education

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

//go:embed topics/*.md
var topicsFS embed.FS

var ErrTopicNotFound = errors.New("topic not found")

// order lists topics in reading order; unlisted topics follow alphabetically.
var order = []string{"budgeting", "investing", "saving", "retirement", "loans"}

// Topic is one rendered markdown document.
type Topic struct {
	Slug     string
	Title    string
	Markdown string
	HTML     string
}

// Library holds every topic, rendered once at load time.
type Library struct {
	topics []Topic
	bySlug map[string]int
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.Table))

// Load reads and renders all embedded topics.
func Load() (*Library, error) {
	return load(topicsFS)
}

func load(fsys fs.FS) (*Library, error) {
	paths, err := fs.Glob(fsys, "topics/*.md")
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}

	lib := &Library{bySlug: make(map[string]int, len(paths))}
	for _, p := range paths {
		src, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read topic %s: %w", p, err)
		}
		var html bytes.Buffer
		if err := markdown.Convert(src, &html); err != nil {
			return nil, fmt.Errorf("render topic %s: %w", p, err)
		}
		slug := strings.TrimSuffix(path.Base(p), ".md")
		lib.topics = append(lib.topics, Topic{
			Slug:     slug,
			Title:    title(src, slug),
			Markdown: string(src),
			HTML:     html.String(),
		})
	}

	sort.SliceStable(lib.topics, func(i, j int) bool {
		ri, rj := rank(lib.topics[i].Slug), rank(lib.topics[j].Slug)
		if ri != rj {
			return ri < rj
		}
		return lib.topics[i].Slug < lib.topics[j].Slug
	})
	for i, t := range lib.topics {
		lib.bySlug[t.Slug] = i
	}
	return lib, nil
}

func rank(slug string) int {
	for i, s := range order {
		if s == slug {
			return i
		}
	}
	return len(order)
}

// title returns the text of the first level-one heading, or slug.
func title(src []byte, slug string) string {
	root := markdown.Parser().Parse(text.NewReader(src))
	found := slug
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		h, ok := n.(*ast.Heading)
		if !entering || !ok || h.Level != 1 {
			return ast.WalkContinue, nil
		}
		var b strings.Builder
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				b.Write(t.Segment.Value(src))
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			found = s
		}
		return ast.WalkStop, nil
	})
	return found
}

// Topics returns all topics in reading order.
func (l *Library) Topics() []Topic {
	out := make([]Topic, len(l.topics))
	copy(out, l.topics)
	return out
}

// Slugs returns the topic identifiers in reading order.
func (l *Library) Slugs() []string {
	out := make([]string, len(l.topics))
	for i, t := range l.topics {
		out[i] = t.Slug
	}
	return out
}

func (l *Library) Get(slug string) (Topic, error) {
	i, ok := l.bySlug[strings.ToLower(strings.TrimSpace(slug))]
	if !ok {
		return Topic{}, fmt.Errorf("%w: %q", ErrTopicNotFound, slug)
	}
	return l.topics[i], nil
}

// Markdown concatenates the given topics, or all of them when slugs is
// empty or contains "*".
func (l *Library) Markdown(slugs ...string) (string, error) {
	if len(slugs) == 0 {
		slugs = []string{"*"}
	}
	var b strings.Builder
	for _, s := range slugs {
		if s == "*" {
			for _, t := range l.topics {
				b.WriteString(t.Markdown)
				b.WriteString("\n")
			}
			continue
		}
		t, err := l.Get(s)
		if err != nil {
			return "", err
		}
		b.WriteString(t.Markdown)
		b.WriteString("\n")
	}
	return b.String(), nil
}
