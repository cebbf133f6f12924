package extractor

// Stage identifies a coarse step of one extraction run.
type Stage string

const (
	StageFetching    Stage = "fetching"
	StageWalking     Stage = "walking"
	StageAggregating Stage = "aggregating"
	StageExtracting  Stage = "extracting"
	StageDone        Stage = "done"
)

// ProgressEvent reports pipeline progress to an interested observer, e.g. a
// websocket handler. Progress reporting never affects extraction semantics.
type ProgressEvent struct {
	Stage Stage  `json:"stage"`
	URL   string `json:"url"`

	// Stylesheets is the number of external stylesheets being fetched.
	// Only set for StageAggregating.
	Stylesheets int `json:"stylesheets,omitempty"`
}

// ProgressFunc receives ProgressEvents. Implementations must be fast; the
// pipeline calls them synchronously.
type ProgressFunc func(ev ProgressEvent)
