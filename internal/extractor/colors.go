package extractor

import (
	"regexp"
	"strings"
)

// colorPattern matches hex color literals: # followed by exactly 3 or 6 hex
// digits, word-bounded. Six digits are tried first so #AABBCC is not read as
// #AAB.
var colorPattern = regexp.MustCompile(`#(?:[0-9a-fA-F]{6}|[0-9a-fA-F]{3})\b`)

// ExtractColors scans text for hex color literals, normalizes each to
// uppercase #RRGGBB and deduplicates, preserving first-occurrence order.
// It does not check that a match appears inside a color property; any
// word-bounded hex token counts.
func ExtractColors(text string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, match := range colorPattern.FindAllString(text, -1) {
		color := normalizeHex(match)
		if _, ok := seen[color]; ok {
			continue
		}
		seen[color] = struct{}{}
		out = append(out, color)
	}

	return out
}

// normalizeHex expands #RGB to #RRGGBB by doubling each digit and uppercases
// the result.
func normalizeHex(match string) string {
	digits := match[1:]
	if len(digits) == 3 {
		var b strings.Builder
		b.Grow(6)
		for _, d := range digits {
			b.WriteRune(d)
			b.WriteRune(d)
		}
		digits = b.String()
	}
	return "#" + strings.ToUpper(digits)
}
