package extractor_test

import (
	"reflect"
	"testing"

	"github.com/raysh454/exploder/internal/extractor"
)

func TestExtractFonts_Declarations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		css  string
		want []string
	}{
		{
			name: "comma separated families",
			css:  "body { font-family: Arial, sans-serif; }",
			want: []string{"Arial", "sans-serif"},
		},
		{
			name: "quotes stripped",
			css:  `h1 { font-family: "Helvetica Neue", 'Segoe UI', serif; }`,
			want: []string{"Helvetica Neue", "Segoe UI", "serif"},
		},
		{
			name: "css wide keywords discarded",
			css:  "p { font-family: inherit; } q { font-family: INITIAL; } s { font-family: unset; }",
			want: nil,
		},
		{
			name: "keyword mixed with real family",
			css:  "p { font-family: Georgia, inherit; }",
			want: []string{"Georgia"},
		},
		{
			name: "duplicates collapse across rules",
			css:  "a { font-family: Arial } b { font-family: Arial, Verdana }",
			want: []string{"Arial", "Verdana"},
		},
		{
			name: "case sensitive comparison keeps both",
			css:  "a { font-family: Arial } b { font-family: arial }",
			want: []string{"Arial", "arial"},
		},
		{
			name: "declaration without semicolon before closing brace",
			css:  "a { color: red; font-family: Verdana }",
			want: []string{"Verdana"},
		},
		{
			name: "empty tokens discarded",
			css:  "a { font-family: , Arial,, }",
			want: []string{"Arial"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractor.ExtractFonts(tt.css)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractFonts(%q) = %v, want %v", tt.css, got, tt.want)
			}
		})
	}
}

func TestExtractFonts_FontFace(t *testing.T) {
	t.Parallel()

	css := `@font-face {
		font-family: "My Font";
		src: url(/fonts/my-font.woff2) format("woff2");
	}`

	got := extractor.ExtractFonts(css)
	want := []string{"My Font"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractFonts = %v, want %v", got, want)
	}
}

func TestExtractFonts_FontFaceNotSplitOnCommas(t *testing.T) {
	t.Parallel()

	// A @font-face block declares exactly one family; a comma inside the
	// quoted name must survive. The declaration pass splits the same value,
	// so the unsplit form has to come from the font-face pass.
	css := `@font-face { font-family: "Foo, Bar"; }`

	got := extractor.ExtractFonts(css)
	found := false
	for _, f := range got {
		if f == "Foo, Bar" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected unsplit family %q in %v", "Foo, Bar", got)
	}
}

func TestFontServiceFamilies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		href string
		want []string
	}{
		{
			name: "single family",
			href: "https://fonts.googleapis.com/css?family=Roboto",
			want: []string{"Roboto"},
		},
		{
			name: "multiple families with word separators",
			href: "https://fonts.googleapis.com/css?family=Roboto+Slab%7COpen+Sans",
			want: []string{"Roboto Slab", "Open Sans"},
		},
		{
			name: "literal pipe separator",
			href: "https://fonts.googleapis.com/css?family=Lato|Merriweather",
			want: []string{"Lato", "Merriweather"},
		},
		{
			name: "no family parameter",
			href: "https://cdn.example.com/site.css",
			want: nil,
		},
		{
			name: "unparseable address",
			href: "http://[::broken",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractor.FontServiceFamilies(tt.href)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FontServiceFamilies(%q) = %v, want %v", tt.href, got, tt.want)
			}
		})
	}
}
