package extractor

import (
	"regexp"

	"github.com/raysh454/exploder/internal/utils"
)

// urlRefPattern matches url(...) references with optional single or double
// quotes around the value.
var urlRefPattern = regexp.MustCompile(`url\(\s*['"]?([^'")]+?)['"]?\s*\)`)

// ExtractBackgroundImages scans CSS text for url(...) references. Embedded
// data URIs are discarded; everything else is resolved against baseURL and
// appended in order of appearance. Duplicates are kept at this layer; the
// orchestrator deduplicates when merging into the shared image collection.
func ExtractBackgroundImages(cssText, baseURL string) []string {
	var out []string
	for _, m := range urlRefPattern.FindAllStringSubmatch(cssText, -1) {
		ref := m[1]
		if utils.IsDataURI(ref) {
			continue
		}
		out = append(out, utils.Resolve(baseURL, ref))
	}
	return out
}
