package model

// SourceKind classifies where a unit of CSS text came from.
type SourceKind string

const (
	SourceInlineAttribute SourceKind = "inline-attribute"
	SourceEmbeddedBlock   SourceKind = "embedded-block"
	SourceExternalLink    SourceKind = "external-link"
)

// StylesheetSource is one CSS-bearing unit paired with the base URL used to
// resolve url() references found inside it. External stylesheets resolve
// against their own URL; inline and embedded CSS against the document base.
type StylesheetSource struct {
	Kind SourceKind
	CSS  string
	Base string
}

// Assets is the serializable result of one extraction run: three ordered,
// deduplicated sequences.
type Assets struct {
	Images []string `json:"images"`
	Colors []string `json:"colors"`
	Fonts  []string `json:"fonts"`
}

// AssetCollection accumulates images, colors and fonts across the pipeline.
// Each container deduplicates on insert and preserves first-insertion order.
// Not safe for concurrent use; the orchestrator owns it exclusively.
type AssetCollection struct {
	images ordered
	colors ordered
	fonts  ordered
}

// NewAssetCollection returns an empty collection.
func NewAssetCollection() *AssetCollection {
	return &AssetCollection{
		images: newOrdered(),
		colors: newOrdered(),
		fonts:  newOrdered(),
	}
}

// AddImage records an absolute image URL. Empty strings are ignored.
func (c *AssetCollection) AddImage(url string) { c.images.add(url) }

// AddColor records a normalized #RRGGBB color. Empty strings are ignored.
func (c *AssetCollection) AddColor(hex string) { c.colors.add(hex) }

// AddFont records a font family name. Empty strings are ignored.
func (c *AssetCollection) AddFont(family string) { c.fonts.add(family) }

// Snapshot finalizes the collection into its serializable form. The returned
// slices are copies; further Adds do not affect them.
func (c *AssetCollection) Snapshot() Assets {
	return Assets{
		Images: c.images.values(),
		Colors: c.colors.values(),
		Fonts:  c.fonts.values(),
	}
}

// ordered is a string set that remembers insertion order.
type ordered struct {
	seen map[string]struct{}
	list []string
}

func newOrdered() ordered {
	return ordered{seen: make(map[string]struct{})}
}

func (o *ordered) add(v string) {
	if v == "" {
		return
	}
	if _, ok := o.seen[v]; ok {
		return
	}
	o.seen[v] = struct{}{}
	o.list = append(o.list, v)
}

func (o *ordered) values() []string {
	out := make([]string, len(o.list))
	copy(out, o.list)
	return out
}
