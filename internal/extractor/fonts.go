package extractor

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	// fontFamilyPattern matches font-family declarations anywhere in CSS text.
	fontFamilyPattern = regexp.MustCompile(`(?i)font-family\s*:\s*([^;}]+)`)

	// fontFacePattern captures the body of @font-face blocks, which declare
	// exactly one family each.
	fontFacePattern = regexp.MustCompile(`(?is)@font-face\s*\{([^}]*)\}`)
)

// cssWideKeywords are values that name no font family and are discarded.
var cssWideKeywords = map[string]struct{}{
	"inherit": {},
	"initial": {},
	"unset":   {},
	"none":    {},
}

// ExtractFonts scans CSS text for declared font families. Two passes are
// unioned: comma-separated font-family declarations and single-family
// @font-face blocks. Families are deduplicated as exact strings after
// trimming; no case folding, since font names are case-sensitive by
// convention. First-occurrence order is preserved.
func ExtractFonts(cssText string) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(family string) {
		family = cleanFamily(family)
		if family == "" {
			return
		}
		if _, keyword := cssWideKeywords[strings.ToLower(family)]; keyword {
			return
		}
		if _, ok := seen[family]; ok {
			return
		}
		seen[family] = struct{}{}
		out = append(out, family)
	}

	// Pass 1: font-family declarations, value split on commas.
	for _, m := range fontFamilyPattern.FindAllStringSubmatch(cssText, -1) {
		for _, token := range strings.Split(m[1], ",") {
			add(token)
		}
	}

	// Pass 2: @font-face blocks. The declared value is one family, so it is
	// not split on commas even if it contains one.
	for _, block := range fontFacePattern.FindAllStringSubmatch(cssText, -1) {
		if decl := fontFamilyPattern.FindStringSubmatch(block[1]); decl != nil {
			add(decl[1])
		}
	}

	return out
}

// FontServiceFamilies extracts family names declared directly in a font
// service stylesheet address (e.g. fonts.googleapis.com/css?family=A|B).
// Families are separated by "|" and words inside a name by "+". Returns nil
// when the address carries no family parameter.
func FontServiceFamilies(href string) []string {
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}

	param := u.Query().Get("family")
	if param == "" {
		return nil
	}

	var out []string
	for _, family := range strings.Split(param, "|") {
		// url.Values already decodes "+" to a space; handle the raw form too.
		family = strings.TrimSpace(strings.ReplaceAll(family, "+", " "))
		if family != "" {
			out = append(out, family)
		}
	}
	return out
}

// cleanFamily strips surrounding whitespace and quote characters from a
// family token.
func cleanFamily(token string) string {
	token = strings.TrimSpace(token)
	token = strings.Trim(token, `"'`)
	return strings.TrimSpace(token)
}
