package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/mrpctl/internal/provisioning"
)

// Result is what every command reports. Provision carries the
// provisioner's reply to a state change request.
type Result struct {
	Changed   bool           `json:"changed"`
	JSON      any            `json:"json,omitempty"`
	IP        string         `json:"ip,omitempty"`
	Provision any            `json:"machine_provision,omitempty"`
	Debug     map[string]any `json:"debug,omitempty"`
	Failed    bool           `json:"failed,omitempty"`
	Msg       string         `json:"msg,omitempty"`
}

// Colors matching the palette used across the CLI.
var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorRed    = lipgloss.Color("#ef4444")
	colorDim    = lipgloss.Color("#6b7280")
)

var (
	changedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorYellow)
	okStyle      = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorRed)
	dimStyle     = lipgloss.NewStyle().Foreground(colorDim)
)

// isInteractiveTTY reports whether w is a terminal. Styles are only applied
// on terminals.
var isInteractiveTTY = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// failure builds the failed result for err. Workflow errors are extended
// with the phases that completed before the failure.
func failure(err error, debug map[string]any) (*Result, error) {
	var wfErr *provisioning.WorkflowError
	if errors.As(err, &wfErr) && len(wfErr.Completed) > 0 {
		err = fmt.Errorf("%w (completed: %s)", err, wfErr.CompletedSummary())
	}
	return &Result{Failed: true, Msg: err.Error(), Debug: debug}, err
}

// report renders res in the requested format and passes cmdErr through.
// Failed results are only printed in JSON mode; in text mode main prints
// the error.
func report(w io.Writer, format string, res *Result, cmdErr error) error {
	if format == OutputJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return cmdErr
	}
	if cmdErr != nil {
		return cmdErr
	}
	_, err := io.WriteString(w, renderText(res, isInteractiveTTY(w)))
	return err
}

// renderText produces the human-readable result summary.
func renderText(res *Result, styled bool) string {
	style := func(s lipgloss.Style, text string) string {
		if !styled {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	if res.Changed {
		b.WriteString(style(changedStyle, "changed"))
	} else {
		b.WriteString(style(okStyle, "ok"))
	}
	if res.Msg != "" {
		b.WriteString(": ")
		b.WriteString(res.Msg)
	}
	b.WriteString("\n")

	if res.IP != "" {
		fmt.Fprintf(&b, "  ip: %s\n", res.IP)
	}

	if res.JSON != nil {
		if data, err := json.MarshalIndent(res.JSON, "  ", "  "); err == nil {
			b.WriteString("  ")
			b.WriteString(string(data))
			b.WriteString("\n")
		}
	}

	if res.Provision != nil {
		fmt.Fprintf(&b, "  provision: %s\n", summarize(res.Provision))
	}

	if len(res.Debug) > 0 {
		keys := make([]string, 0, len(res.Debug))
		for k := range res.Debug {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(style(dimStyle, "  resolved:"))
		b.WriteString("\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "    %s: %s\n", k, summarize(res.Debug[k]))
		}
	}

	return b.String()
}

// summarize renders a record as compact JSON for the debug listing.
func summarize(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// renderFailure produces the text used by main for failed commands.
func renderFailure(msg string, styled bool) string {
	if !styled {
		return "failed: " + msg
	}
	return failedStyle.Render("failed") + ": " + msg
}

// FormatError renders a command error for stderr.
func FormatError(err error) string {
	return renderFailure(err.Error(), isInteractiveTTY(os.Stderr))
}
