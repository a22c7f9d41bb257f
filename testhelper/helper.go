package testhelper

import (
	"regexp"
	"strings"
)

var leadingSpaces = regexp.MustCompile(`^[ \t]+`)

// Dedent strips the common indentation of a raw string literal so that
// multi-line sources can be written inline with the test code. The first
// line (right after the backtick) and a trailing blank line are removed.
func Dedent(src string) string {
	lines := strings.Split(src, "\n")

	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}

	if n := len(lines); n > 0 && strings.TrimSpace(lines[n-1]) == "" {
		lines = lines[:n-1]
	}

	var indent string

	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			indent = leadingSpaces.FindString(line)
			break
		}
	}

	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}

		lines[i] = strings.TrimPrefix(line, indent)
	}

	return strings.Join(lines, "\n") + "\n"
}
