package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/termevents/termevents/pkg/cli/term"
	"github.com/termevents/termevents/pkg/ui"
)

// A column of the event table.
type column struct {
	title string
	width int
	style ui.Style
	get   func(span []byte, in term.Interpretation) string
}

var columns = []column{
	{"Hex", 20, ui.Style{Fg: ui.Yellow, Bold: true},
		func(span []byte, _ term.Interpretation) string { return term.HexBytes(span) }},
	{"Esc", 14, ui.Style{Fg: ui.Cyan},
		func(span []byte, _ term.Interpretation) string { return term.EscapeBytes(span) }},
	{"Key", 12, ui.Style{Fg: ui.Green, Bold: true},
		func(_ []byte, in term.Interpretation) string { return in.Key }},
	{"Code", 16, ui.Style{Fg: ui.Blue},
		func(_ []byte, in term.Interpretation) string { return in.Code }},
	{"Mods", 22, ui.Style{Fg: ui.Magenta},
		func(_ []byte, in term.Interpretation) string { return in.Mods }},
	{"Kind", 8, ui.Style{Fg: ui.Red},
		func(_ []byte, in term.Interpretation) string { return in.Kind }},
	// The last column is not padded.
	{"Info", 0, ui.Style{},
		func(_ []byte, in term.Interpretation) string { return in.Info }},
}

const columnSep = " "

// EventTable writes one row per input span, describing the event it decodes
// to.
type EventTable struct {
	// Out receives the table.
	Out io.Writer
	// Color enables SGR styling of the cells.
	Color bool
	// Live is set when Out is a terminal in raw mode. Rows then end with
	// "\r\n", and a status line is kept below the last row.
	Live bool
	// Width, if positive, is the width of the terminal. The last column is
	// truncated to fit in it.
	Width int

	statusShown bool
}

// Header writes the title row and a separator.
func (t *EventTable) Header() error {
	var sb strings.Builder
	var total int
	for i, c := range columns {
		if i > 0 {
			sb.WriteString(columnSep)
			total += len(columnSep)
		}
		title := ui.Style{Bold: true}.Render(c.title)
		if !t.Color {
			title = c.title
		}
		sb.WriteString(title)
		if c.width > 0 {
			sb.WriteString(strings.Repeat(" ", max(c.width-runewidth.StringWidth(c.title), 0)))
			total += c.width
		} else {
			total += runewidth.StringWidth(c.title)
		}
	}
	if err := t.writeLine(sb.String()); err != nil {
		return err
	}
	return t.writeLine(strings.Repeat("-", total))
}

// Row writes the row for the event decoded from span. It returns the
// interpretation written.
func (t *EventTable) Row(span []byte) (term.Interpretation, error) {
	in := term.Interpret(span)
	cells := make([]string, len(columns))
	for i, c := range columns {
		if i == len(columns)-1 && t.Width > 0 {
			c.width = max(t.Width-fixedWidth(), 1)
		}
		cells[i] = t.cell(c, c.get(span, in))
	}
	return in, t.writeLine(strings.Join(cells, columnSep))
}

// Returns the width taken by all columns but the last, with separators.
func fixedWidth() int {
	w := 0
	for _, c := range columns[:len(columns)-1] {
		w += c.width + len(columnSep)
	}
	return w
}

// Reserve makes room for rows lines below the cursor and moves back up, so
// that an inline table does not scroll away what is above it.
func (t *EventTable) Reserve(rows int) error {
	if !t.Live || rows <= 0 {
		return nil
	}
	_, err := fmt.Fprintf(t.Out, "%s\033[%dA", strings.Repeat("\r\n", rows), rows)
	return err
}

func (t *EventTable) cell(c column, text string) string {
	if c.width > 0 {
		text = runewidth.Truncate(text, c.width, "…")
		text = runewidth.FillRight(text, c.width)
	}
	if t.Color {
		return c.style.Render(text)
	}
	return text
}

// Status redraws the status line of a live table, showing the input and time
// budgets. A non-positive budget is shown as unlimited. It does nothing if the
// table is not live.
func (t *EventTable) Status(inputs, maxInputs int, elapsed, timeout time.Duration) error {
	if !t.Live {
		return nil
	}
	line := FormatStatus(inputs, maxInputs, elapsed, timeout)
	if t.Color {
		line = ui.Style{Dim: true}.Render(line)
	}
	_, err := io.WriteString(t.Out, "\r\033[K"+line)
	t.statusShown = true
	return err
}

// Finish moves past the status line, if one is shown.
func (t *EventTable) Finish() error {
	if !t.statusShown {
		return nil
	}
	t.statusShown = false
	_, err := io.WriteString(t.Out, "\r\n")
	return err
}

func (t *EventTable) writeLine(s string) error {
	var err error
	if t.Live {
		// Overwrite the status line, if any.
		_, err = io.WriteString(t.Out, "\r\033[K"+s+"\r\n")
		t.statusShown = false
	} else {
		_, err = io.WriteString(t.Out, s+"\n")
	}
	return err
}

// FormatStatus returns the text of the status line.
func FormatStatus(inputs, maxInputs int, elapsed, timeout time.Duration) string {
	maxText := "∞"
	if maxInputs > 0 {
		maxText = fmt.Sprint(maxInputs)
	}
	timeoutText := "∞"
	if timeout > 0 {
		timeoutText = fmt.Sprintf("%gs", timeout.Seconds())
	}
	return fmt.Sprintf("Inputs: %d/%s | Time: %.1fs / %s",
		inputs, maxText, elapsed.Seconds(), timeoutText)
}
