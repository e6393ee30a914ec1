package present

import (
	"bytes"
	"io"
	"log/slog"
	"sync"
	"text/template"

	"leaveby.app/internal/arrivals"
	"leaveby.app/internal/board"
	"leaveby.app/internal/logging"
)

const (
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
	ansiReset = "\x1b[0m"
	ansiClear = "\x1b[H\x1b[2J"
)

var frameTemplate = template.Must(template.New("frame").Parse(
	`{{range .Lines}}== {{.Name}} ==
{{if .Error}}  {{.Error}}
{{else if .Pending}}  Waiting for first update...
{{else}}{{if .Advice}}  {{.Advice}}
{{end}}  {{.InboundHeading}}
{{range .Inbound}}    {{.}}
{{else}}    -
{{end}}  {{.OutboundHeading}}
{{range .Outbound}}    {{.}}
{{else}}    -
{{end}}{{end}}
{{end}}`))

type lineText struct {
	Name            string
	Error           string
	Pending         bool
	Advice          string
	InboundHeading  string
	OutboundHeading string
	Inbound         []string
	Outbound        []string
}

type frameText struct {
	Lines []lineText
}

// TerminalOptions configures a Terminal.
type TerminalOptions struct {
	// Color wraps advice in ANSI colours by tone.
	Color bool
	// Clear clears the screen before every frame.
	Clear bool
	Logger *slog.Logger
}

// Terminal writes every frame to w as plain text.
type Terminal struct {
	mu     sync.Mutex
	w      io.Writer
	opts   TerminalOptions
	logger *slog.Logger
}

func NewTerminal(w io.Writer, opts TerminalOptions) *Terminal {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Terminal{
		w:      w,
		opts:   opts,
		logger: logger.With(slog.String("component", "terminal_presenter")),
	}
}

func (t *Terminal) Present(frame board.Frame) {
	var buf bytes.Buffer
	if t.opts.Clear {
		buf.WriteString(ansiClear)
	}
	if err := Render(&buf, frame, t.opts.Color); err != nil {
		logging.LogError(t.logger, "render_frame_failed", err)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(buf.Bytes()); err != nil {
		logging.LogError(t.logger, "write_frame_failed", err)
	}
}

// Render writes frame as text. Hidden arrivals are left out.
func Render(w io.Writer, frame board.Frame, color bool) error {
	data := frameText{Lines: make([]lineText, len(frame.Lines))}
	for i, view := range frame.Lines {
		data.Lines[i] = renderLine(view, color)
	}
	return frameTemplate.Execute(w, data)
}

func renderLine(view arrivals.LineView, color bool) lineText {
	result := view.Result
	text := lineText{
		Name:            result.Line.Name,
		InboundHeading:  InboundHeading,
		OutboundHeading: OutboundHeading,
	}

	switch result.Status {
	case arrivals.StatusFailed:
		text.Error = colorize(ErrorText(result.Line), ansiRed, color)
		return text
	case arrivals.StatusPending:
		text.Pending = true
		return text
	}

	if view.Advice != nil {
		code := ansiGreen
		if AdviceTone(*view.Advice) == ToneAlert {
			code = ansiRed
		}
		text.Advice = colorize(AdviceText(*view.Advice), code, color)
	}

	text.Inbound = visibleText(view.Inbound)
	text.Outbound = visibleText(view.Outbound)
	return text
}

func visibleText(records []arrivals.RecordView) []string {
	var out []string
	for _, record := range records {
		if record.Visible {
			out = append(out, RecordText(record))
		}
	}
	return out
}

func colorize(s, code string, enabled bool) string {
	if !enabled {
		return s
	}
	return code + s + ansiReset
}
