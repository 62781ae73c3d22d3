package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	borderStyle = lipgloss.NewStyle().Foreground(colorBorder)
	gainStyle   = lipgloss.NewStyle().Foreground(colorGreen)
	lossStyle   = lipgloss.NewStyle().Foreground(colorRed)
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
)

// Table is a bordered text table. The first column is left aligned, the
// rest are right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Renderer writes styled output, or plain text when Plain is set.
type Renderer struct {
	Out   io.Writer
	Plain bool
}

func NewRenderer(out io.Writer, plain bool) *Renderer {
	return &Renderer{Out: out, Plain: plain}
}

func (r *Renderer) style(s lipgloss.Style, text string) string {
	if r.Plain {
		return text
	}
	return s.Render(text)
}

// Title prints a boxed heading.
func (r *Renderer) Title(title string) {
	if r.Plain {
		fmt.Fprintf(r.Out, "%s\n%s\n\n", title, strings.Repeat("=", lipgloss.Width(title)))
		return
	}
	fmt.Fprintf(r.Out, "%s\n\n", titleStyle.Render(title))
}

// KeyValues prints label/value pairs with aligned values.
func (r *Renderer) KeyValues(pairs [][2]string) {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p[0]); w > width {
			width = w
		}
	}
	for _, p := range pairs {
		label := p[0] + strings.Repeat(" ", width-lipgloss.Width(p[0]))
		fmt.Fprintf(r.Out, "  %s  %s\n", r.style(headerStyle, label), p[1])
	}
	fmt.Fprintln(r.Out)
}

// Amount colours a signed amount: green for gains, red for losses.
func (r *Renderer) Amount(text string, negative bool) string {
	if negative {
		return r.style(lossStyle, text)
	}
	return r.style(gainStyle, text)
}

// Error prints a one-line error message.
func (r *Renderer) Error(err error) {
	fmt.Fprintf(r.Out, "%s %v\n", r.style(errorStyle, "error:"), err)
}

// Table prints t with box-drawing borders.
func (r *Renderer) Table(t Table) {
	if len(t.Headers) == 0 && len(t.Rows) == 0 {
		return
	}
	cols := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	measure := func(cells []string) {
		for i, c := range cells {
			if w := lipgloss.Width(c); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.Headers)
	for _, row := range t.Rows {
		measure(row)
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  " + r.style(headerStyle, t.Title) + "\n")
	}

	rule := func(left, mid, right string) {
		b.WriteString(r.style(borderStyle, left))
		for i, w := range widths {
			b.WriteString(r.style(borderStyle, strings.Repeat("─", w+2)))
			if i < cols-1 {
				b.WriteString(r.style(borderStyle, mid))
			}
		}
		b.WriteString(r.style(borderStyle, right) + "\n")
	}
	line := func(cells []string, header bool) {
		b.WriteString(r.style(borderStyle, "│"))
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
			if i == 0 || header {
				cell = cell + pad
			} else {
				cell = pad + cell
			}
			if header {
				cell = r.style(headerStyle, cell)
			}
			b.WriteString(" " + cell + " ")
			b.WriteString(r.style(borderStyle, "│"))
		}
		b.WriteString("\n")
	}

	rule("╭", "┬", "╮")
	if len(t.Headers) > 0 {
		line(t.Headers, true)
		rule("├", "┼", "┤")
	}
	for _, row := range t.Rows {
		line(row, false)
	}
	rule("╰", "┴", "╯")

	fmt.Fprint(r.Out, b.String())
}
