// Package output renders command results for terminals, pipes and machines.
//
// The effective format follows the --output flag. In auto mode a terminal
// gets styled text and anything else gets markdown.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects an output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists the accepted --output values.
var Modes = []Mode{ModeAuto, ModeText, ModeMarkdown, ModeJSON}

// ParseMode validates s as an output mode. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	m := Mode(strings.ToLower(s))
	for _, known := range Modes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want auto, text, markdown or json)", s)
}

// Renderer writes command output in the effective mode.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	isTTY  bool
	styles *Styles
}

// NewRenderer creates a renderer, detecting whether w is a terminal.
func NewRenderer(w, errW io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(w, errW, isTerminal(w), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(w, errW io.Writer, isTTY bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	r := &Renderer{w: w, errW: errW, mode: mode, isTTY: isTTY}

	lr := lipgloss.NewRenderer(w)
	if !isTTY || r.EffectiveMode() != ModeText {
		lr.SetColorProfile(termenv.Ascii)
	}
	r.styles = newStyles(lr)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// EffectiveMode resolves auto to text on a terminal and markdown otherwise.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.isTTY {
		return ModeText
	}
	return ModeMarkdown
}

// IsTTY reports whether the main writer is a terminal.
func (r *Renderer) IsTTY() bool { return r.isTTY }

// Styles returns the styles bound to this renderer's colour profile.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the main output writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// ErrWriter returns the diagnostic writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errW }

// Println writes a line to the main writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output to the main writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Success reports a successful outcome.
func (r *Renderer) Success(msg string) {
	switch r.EffectiveMode() {
	case ModeJSON:
		return
	case ModeMarkdown:
		r.Println("**" + msg + "**")
	default:
		r.Println(r.styles.Success.Render("✓ " + msg))
	}
}

// Warn writes a warning to the diagnostic writer.
func (r *Renderer) Warn(msg string) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render("warning: ")+msg)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table renders rows under header. Markdown mode emits a markdown table.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)

	headerRow := make(table.Row, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	t.AppendHeader(headerRow)
	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	if !r.isTTY {
		t.Style().Color = table.ColorOptions{}
	}
	t.Render()
}

// FormatHeader returns a markdown header of the given level.
func FormatHeader(level int, text string) string {
	return strings.Repeat("#", level) + " " + text
}

// FormatCodeBlock wraps code in a fenced block.
func FormatCodeBlock(lang, code string) string {
	return "```" + lang + "\n" + strings.TrimRight(code, "\n") + "\n```"
}
