package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/scratchlang/slc/script"
)

var (
	errorStyle   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	errorColor   = pterm.FgRed
	warningStyle = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warningColor = pterm.FgYellow
	infoStyle    = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	infoColor    = pterm.FgLightGreen
)

// printProblems writes the problems of one compile followed by the source
// line each one points at.
func printProblems(w io.Writer, source string, lines []string, problems []script.Problem) {
	name := filepath.Base(source)
	for _, p := range problems {
		tag, color := errorStyle.Sprint(" error "), errorColor
		if p.Severity == script.SeverityWarning {
			tag, color = warningStyle.Sprint(" warning "), warningColor
		}
		where := name
		if p.Line > 0 {
			where = fmt.Sprintf("%s:%d", name, p.Line)
		}
		fmt.Fprintf(w, "%s %s %s\n", tag, infoColor.Sprint(where), color.Sprint(p.Err.Error()))
		if p.Line > 0 && p.Line <= len(lines) {
			text := strings.TrimSpace(lines[p.Line-1])
			if text != "" {
				fmt.Fprintf(w, "%s|  %s\n", strings.Repeat(" ", len(fmt.Sprint(p.Line))+1), text)
			}
		}
	}
}

func printSummary(w io.Writer, source, output string, problems []script.Problem, cached bool) {
	var errs, warnings int
	for _, p := range problems {
		if p.Severity == script.SeverityWarning {
			warnings++
		} else {
			errs++
		}
	}
	msg := fmt.Sprintf("%s -> %s", filepath.Base(source), output)
	if cached {
		msg += " (cached)"
	}
	switch {
	case errs > 0:
		fmt.Fprintf(w, "%s %s, %d errors, %d warnings\n", errorStyle.Sprint(" done "), msg, errs, warnings)
	case warnings > 0:
		fmt.Fprintf(w, "%s %s, %d warnings\n", warningStyle.Sprint(" done "), msg, warnings)
	default:
		fmt.Fprintf(w, "%s %s\n", infoStyle.Sprint(" done "), msg)
	}
}
