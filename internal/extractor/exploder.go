package extractor

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/raysh454/exploder/internal/interfaces"
	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/model"
)

// Config holds the tunable policies of the extraction pipeline.
type Config struct {
	// MaxConcurrency bounds the stylesheet fan-out.
	MaxConcurrency int

	// StylesheetTimeout bounds each individual external stylesheet fetch.
	StylesheetTimeout time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency:    4,
		StylesheetTimeout: 10 * time.Second,
	}
}

// Exploder runs the full extraction pipeline for one target URL: fetch the
// document, walk it, aggregate its CSS, run the pattern extractors and merge
// the results into one deduplicated asset collection.
type Exploder struct {
	wc     interfaces.WebClient
	agg    *Aggregator
	logger logging.Logger
}

// NewExploder ties together the webclient, aggregator and logger.
func NewExploder(cfg Config, wc interfaces.WebClient, logger logging.Logger) *Exploder {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	return &Exploder{
		wc:     wc,
		agg:    NewAggregator(wc, logger, cfg.MaxConcurrency, cfg.StylesheetTimeout),
		logger: logger.With(logging.Field{Key: "component", Value: "exploder"}),
	}
}

// Explode extracts the design assets of the document at rawURL.
func (e *Exploder) Explode(ctx context.Context, rawURL string) (model.Assets, error) {
	return e.ExplodeWithProgress(ctx, rawURL, nil)
}

// ExplodeWithProgress is Explode with an optional progress observer.
func (e *Exploder) ExplodeWithProgress(ctx context.Context, rawURL string, progress ProgressFunc) (model.Assets, error) {
	emit := func(ev ProgressEvent) {
		if progress != nil {
			ev.URL = rawURL
			progress(ev)
		}
	}

	if err := validateTargetURL(rawURL); err != nil {
		return model.Assets{}, err
	}

	// Fetch the primary document. Unlike stylesheet fetches, a failure here
	// aborts the whole operation.
	emit(ProgressEvent{Stage: StageFetching})
	resp, err := e.wc.Get(ctx, rawURL)
	if err != nil {
		return model.Assets{}, &UpstreamFetchError{URL: rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Assets{}, &UpstreamFetchError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return model.Assets{}, &InternalError{Err: fmt.Errorf("parse document: %w", err)}
	}

	emit(ProgressEvent{Stage: StageWalking})
	walked := Walk(doc, rawURL)

	emit(ProgressEvent{Stage: StageAggregating, Stylesheets: len(walked.StylesheetURLs)})
	sources := e.agg.Aggregate(ctx, walked.StylesheetURLs, walked.CSSFragments)

	emit(ProgressEvent{Stage: StageExtracting})
	assets := e.merge(walked, sources)

	e.logger.Info("extraction complete",
		logging.Field{Key: "url", Value: rawURL},
		logging.Field{Key: "images", Value: len(assets.Images)},
		logging.Field{Key: "colors", Value: len(assets.Colors)},
		logging.Field{Key: "fonts", Value: len(assets.Fonts)})

	emit(ProgressEvent{Stage: StageDone})
	return assets, nil
}

// merge runs the pattern extractors over the aggregated corpus and unions
// their output with the walker's direct findings.
func (e *Exploder) merge(walked *WalkResult, sources []model.StylesheetSource) model.Assets {
	collection := model.NewAssetCollection()

	for _, img := range walked.ImageURLs {
		collection.AddImage(img)
	}

	// Background url() references resolve against the base of the source
	// they appeared in, so that extractor runs per source.
	for _, src := range sources {
		for _, img := range ExtractBackgroundImages(src.CSS, src.Base) {
			collection.AddImage(img)
		}
	}

	corpus := CombinedText(sources)

	for _, color := range ExtractColors(corpus) {
		collection.AddColor(color)
	}
	for _, family := range ExtractFonts(corpus) {
		collection.AddFont(family)
	}
	for _, family := range walked.FontServiceFamilies {
		collection.AddFont(family)
	}

	return collection.Snapshot()
}

// validateTargetURL fails fast on a missing or malformed target before any
// network access.
func validateTargetURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{URL: rawURL, Reason: "missing url"}
	}
	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return &ValidationError{URL: rawURL, Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{URL: rawURL, Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &ValidationError{URL: rawURL, Reason: "missing host"}
	}
	return nil
}
