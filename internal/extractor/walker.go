package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/exploder/internal/model"
	"github.com/raysh454/exploder/internal/utils"
)

// WalkResult is everything the document walk collects from markup. The walk
// performs no network I/O; it only enumerates and classifies references.
type WalkResult struct {
	// ImageURLs are resolved absolute image URLs from src/srcset attributes,
	// deduplicated preserving document order.
	ImageURLs []string

	// CSSFragments are inline style attributes and embedded <style> blocks,
	// verbatim, paired with the document base for url() resolution.
	CSSFragments []model.StylesheetSource

	// StylesheetURLs are resolved addresses of external stylesheets queued
	// for concurrent fetch, deduplicated.
	StylesheetURLs []string

	// FontServiceFamilies are families declared directly in font-service
	// link addresses. These links bypass CSS fetching entirely.
	FontServiceFamilies []string
}

// Walk traverses the parsed document and collects image references, raw CSS
// fragments, external stylesheet addresses and font-service families.
func Walk(doc *goquery.Document, base string) *WalkResult {
	res := &WalkResult{}
	seenImages := make(map[string]struct{})
	seenSheets := make(map[string]struct{})

	addImage := func(ref string) {
		ref = strings.TrimSpace(ref)
		if ref == "" || utils.IsDataURI(ref) {
			return
		}
		resolved := utils.Resolve(base, ref)
		if _, ok := seenImages[resolved]; ok {
			return
		}
		seenImages[resolved] = struct{}{}
		res.ImageURLs = append(res.ImageURLs, resolved)
	}

	// Direct image sources.
	doc.Find("img[src]").Each(func(i int, sel *goquery.Selection) {
		addImage(getAttr(sel, "src"))
	})

	// Responsive source sets: comma-separated candidates, URL is the leading
	// whitespace-delimited token of each.
	doc.Find("img[srcset], source[srcset]").Each(func(i int, sel *goquery.Selection) {
		for _, candidate := range strings.Split(getAttr(sel, "srcset"), ",") {
			fields := strings.Fields(candidate)
			if len(fields) > 0 {
				addImage(fields[0])
			}
		}
	})

	// Inline style attributes, verbatim.
	doc.Find("[style]").Each(func(i int, sel *goquery.Selection) {
		if css := getAttr(sel, "style"); css != "" {
			res.CSSFragments = append(res.CSSFragments, model.StylesheetSource{
				Kind: model.SourceInlineAttribute,
				CSS:  css,
				Base: base,
			})
		}
	})

	// Embedded style blocks, verbatim.
	doc.Find("style").Each(func(i int, sel *goquery.Selection) {
		if css := sel.Text(); strings.TrimSpace(css) != "" {
			res.CSSFragments = append(res.CSSFragments, model.StylesheetSource{
				Kind: model.SourceEmbeddedBlock,
				CSS:  css,
				Base: base,
			})
		}
	})

	// External stylesheets. Font-service links declare their families in the
	// address itself, so they go to the side list instead of the fetch queue.
	doc.Find("link[href]").Each(func(i int, sel *goquery.Selection) {
		if !isStylesheetRel(getAttr(sel, "rel")) {
			return
		}
		href := strings.TrimSpace(getAttr(sel, "href"))
		if href == "" {
			return
		}
		resolved := utils.Resolve(base, href)

		if families := FontServiceFamilies(resolved); len(families) > 0 {
			res.FontServiceFamilies = append(res.FontServiceFamilies, families...)
			return
		}

		if _, ok := seenSheets[resolved]; ok {
			return
		}
		seenSheets[resolved] = struct{}{}
		res.StylesheetURLs = append(res.StylesheetURLs, resolved)
	})

	return res
}

// isStylesheetRel reports whether a link rel value names a stylesheet.
// rel is a space-separated token list and case-insensitive.
func isStylesheetRel(rel string) bool {
	for _, token := range strings.Fields(rel) {
		if strings.EqualFold(token, "stylesheet") {
			return true
		}
	}
	return false
}

func getAttr(sel *goquery.Selection, name string) string {
	val, _ := sel.Attr(name)
	return val
}
