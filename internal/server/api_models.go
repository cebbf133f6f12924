package server

// ExplodeRequest represents the payload required to start an extraction.
type ExplodeRequest struct {
	URL string `json:"url"`
}

// ErrorResponse is a uniform error payload returned by the API.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Error kinds exposed to API consumers. Individual stylesheet failures are
// never reported; they only shrink the extracted sets.
const (
	ErrKindValidation = "validation"
	ErrKindUpstream   = "upstream"
	ErrKindInternal   = "internal"
)

// WSMessage is one frame on the websocket extraction stream.
type WSMessage struct {
	Type string `json:"type"` // "progress" | "result" | "error"

	// For progress frames.
	Stage       string `json:"stage,omitempty"`
	Stylesheets int    `json:"stylesheets,omitempty"`

	// For result frames.
	Result any `json:"result,omitempty"`

	// For error frames.
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}
