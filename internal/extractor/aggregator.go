package extractor

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/raysh454/exploder/internal/interfaces"
	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/model"
)

// FetchOutcome is the per-stylesheet result of the fan-out: either recovered
// CSS text or an absent result. No error value is propagated; an absent
// outcome only shrinks the corpus.
type FetchOutcome struct {
	URL string
	CSS string
	OK  bool
}

// Aggregator fetches external stylesheets concurrently and merges them with
// inline CSS fragments into one corpus.
type Aggregator struct {
	wc          interfaces.WebClient
	logger      logging.Logger
	concurrency int
	timeout     time.Duration
}

// NewAggregator creates an Aggregator. concurrency bounds the fan-out and
// timeout bounds each individual fetch so one unresponsive host cannot stall
// the whole extraction.
func NewAggregator(wc interfaces.WebClient, logger logging.Logger, concurrency int, timeout time.Duration) *Aggregator {
	if concurrency <= 0 {
		concurrency = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Aggregator{
		wc:          wc,
		logger:      logger.With(logging.Field{Key: "component", Value: "aggregator"}),
		concurrency: concurrency,
		timeout:     timeout,
	}
}

// Aggregate fetches every external stylesheet URL concurrently, waits for all
// fetches to finish, and returns the inline fragments plus one source per
// recovered stylesheet. A failed or non-success fetch is dropped silently;
// it never surfaces as an error to the caller.
//
// Each task writes only its own slot of the outcome slice, so results are
// joined after the barrier without shared mutable state.
func (a *Aggregator) Aggregate(ctx context.Context, externalURLs []string, inline []model.StylesheetSource) []model.StylesheetSource {
	outcomes := make([]FetchOutcome, len(externalURLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, sheetURL := range externalURLs {
		g.Go(func() error {
			outcomes[i] = a.fetchOne(gctx, sheetURL)
			// Always nil: a sub-resource failure must not cancel the group.
			return nil
		})
	}

	// Fan-in barrier: extraction must not run over a partial corpus.
	_ = g.Wait()

	sources := make([]model.StylesheetSource, 0, len(inline)+len(externalURLs))
	sources = append(sources, inline...)
	for _, outcome := range outcomes {
		if !outcome.OK {
			continue
		}
		sources = append(sources, model.StylesheetSource{
			Kind: model.SourceExternalLink,
			CSS:  outcome.CSS,
			Base: outcome.URL,
		})
	}

	a.logger.Debug("aggregated stylesheet corpus",
		logging.Field{Key: "external_total", Value: len(externalURLs)},
		logging.Field{Key: "external_recovered", Value: len(sources) - len(inline)},
		logging.Field{Key: "inline", Value: len(inline)})

	return sources
}

func (a *Aggregator) fetchOne(ctx context.Context, sheetURL string) FetchOutcome {
	fetchCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.wc.Get(fetchCtx, sheetURL)
	if err != nil {
		a.logger.Warn("stylesheet fetch failed",
			logging.Field{Key: "url", Value: sheetURL},
			logging.Field{Key: "error", Value: err.Error()})
		return FetchOutcome{URL: sheetURL}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Warn("stylesheet fetch returned non-success status",
			logging.Field{Key: "url", Value: sheetURL},
			logging.Field{Key: "status", Value: resp.StatusCode})
		return FetchOutcome{URL: sheetURL}
	}

	return FetchOutcome{URL: sheetURL, CSS: string(resp.Body), OK: true}
}

// CombinedText concatenates the CSS of all sources into one corpus string
// for the order-insensitive color and font extractors.
func CombinedText(sources []model.StylesheetSource) string {
	var b strings.Builder
	for _, src := range sources {
		b.WriteString(src.CSS)
		b.WriteString("\n")
	}
	return b.String()
}
