// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package driver

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/playbymail/tern/internal/diag"
	"github.com/playbymail/tern/internal/source"
)

var severityColors = map[diag.Severity]*color.Color{
	diag.Bug:     color.New(color.FgHiRed, color.Bold),
	diag.Error:   color.New(color.FgRed, color.Bold),
	diag.Warning: color.New(color.FgYellow),
	diag.Note:    color.New(color.FgCyan),
}

// Render writes a file's diagnostics in a plain terminal format. Color
// is the caller's choice; the writer sees plain text when disabled.
func Render(w io.Writer, provider *source.Provider, res *Result, useColor bool) {
	for _, d := range res.Diags.All() {
		severity := d.Severity.String()
		if useColor {
			severity = severityColors[d.Severity].Sprint(severity)
		}
		where := res.File.Name
		if len(d.Labels) > 0 {
			pos := provider.SpanPosition(res.File, d.Labels[0].Span)
			where = fmt.Sprintf("%s:%s", res.File.Name, pos)
		}
		fmt.Fprintf(w, "%s: %s[%s]: %s\n", where, severity, d.Code, d.Message)
		for _, label := range d.Labels {
			if label.Note == "" {
				continue
			}
			pos := provider.SpanPosition(res.File, label.Span)
			fmt.Fprintf(w, "    %s: %s\n", pos, label.Note)
		}
	}
}
