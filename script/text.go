package script

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/scratchlang/slc/script/ast"
)

const tabWidth = 4

// indentation returns the width of the leading whitespace of a raw line.
func indentation(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += tabWidth
		default:
			return n
		}
	}
	return n
}

func isBlank(line string) bool {
	return line == "" || strings.HasPrefix(line, "//")
}

func isEnd(line string) bool {
	switch strings.ToLower(line) {
	case "结束", "end", "}":
		return true
	}
	return false
}

func isElse(line string) bool {
	switch strings.ToLower(line) {
	case "否则", "else":
		return true
	}
	return false
}

// isQuoted reports whether s is exactly one quoted string.
func isQuoted(s string) bool {
	if len(s) < 2 || (s[0] != '"' && s[0] != '\'') {
		return false
	}
	q := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case q:
			return i == len(s)-1
		}
	}
	return false
}

// unquote strips one level of quotes and decodes escapes. Text that is not
// quoted is returned trimmed.
func unquote(s string) string {
	s = strings.TrimSpace(s)
	if isQuoted(s) {
		return ast.Unescape(s[1 : len(s)-1])
	}
	return s
}

// scanTop calls fn for every byte of s outside quotes and parentheses.
// Returning false stops the scan.
func scanTop(s string, fn func(i int) bool) {
	var (
		quote byte
		depth int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0:
			if !fn(i) {
				return
			}
		}
	}
}

// splitTop splits s on sep outside quotes and parentheses, dropping empty parts.
func splitTop(s string, sep byte) []string {
	var parts []string
	last := 0
	scanTop(s, func(i int) bool {
		if s[i] == sep {
			parts = append(parts, s[last:i])
			last = i + 1
		}
		return true
	})
	parts = append(parts, s[last:])
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitFields splits s on whitespace outside quotes and parentheses.
func splitFields(s string) []string {
	var parts []string
	start := -1
	flush := func(end int) {
		if start >= 0 {
			parts = append(parts, s[start:end])
			start = -1
		}
	}
	var (
		quote byte
		depth int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
		case depth == 0 && (c == ' ' || c == '\t'):
			flush(i)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(s))
	return parts
}

// indexTop returns the first index of sub in s outside quotes and parentheses.
func indexTop(s, sub string) int {
	idx := -1
	scanTop(s, func(i int) bool {
		if strings.HasPrefix(s[i:], sub) {
			idx = i
			return false
		}
		return true
	})
	return idx
}

// lastTop returns the last index of sub in s outside quotes and parentheses.
func lastTop(s, sub string) int {
	idx := -1
	scanTop(s, func(i int) bool {
		if strings.HasPrefix(s[i:], sub) {
			idx = i
		}
		return true
	})
	return idx
}

var numberPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// parseNumber parses the numeric literal forms of the language.
func parseNumber(s string) (float64, bool) {
	if !numberPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// stripQuoted blanks out every quoted part of s.
func stripQuoted(s string) string {
	b := []byte(s)
	var quote byte
	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == '\\' && i+1 < len(b) {
				b[i], b[i+1] = ' ', ' '
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			b[i] = ' '
		case c == '"' || c == '\'':
			quote = c
			b[i] = ' '
		}
	}
	return string(b)
}
