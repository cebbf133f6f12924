package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/exploder/internal/app"
	"github.com/raysh454/exploder/internal/extractor"
	"github.com/raysh454/exploder/internal/history"
	"github.com/raysh454/exploder/internal/interfaces"
	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/webclient"

	_ "modernc.org/sqlite" // SQLite driver
)

// Server is the HTTP + WebSocket API surface for the exploder.
type Server struct {
	cfg       Config
	exploder  *extractor.Exploder
	store     *history.Store
	router    chi.Router
	upgrader  websocket.Upgrader
	logger    logging.Logger
	wc        interfaces.WebClient
	historyDB *sql.DB
}

// NewServer creates a new Server with its own webclient, exploder and
// history store.
func NewServer(cfg Config) (*Server, error) {
	if cfg.AppConfig == nil {
		cfg.AppConfig = app.DefaultConfig()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewStdoutLogger("Server")
	}

	webclient.RegisterDefaultBackends()
	wc, err := webclient.NewWebClient(cfg.AppConfig.WebClient, logger)
	if err != nil {
		return nil, fmt.Errorf("constructing webclient: %w", err)
	}

	// Set up history DB. An empty path keeps history in memory only.
	historyPath := cfg.AppConfig.HistoryPath
	if historyPath == "" {
		historyPath = ":memory:"
	}
	db, err := sql.Open("sqlite", historyPath)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	store, err := history.NewStore(db, logger, cfg.AppConfig.URLOpts)
	if err != nil {
		return nil, fmt.Errorf("creating history store: %w", err)
	}

	r := chi.NewRouter()
	s := &Server{
		cfg:      cfg,
		exploder: extractor.NewExploder(cfg.AppConfig.Extractor, wc, logger),
		store:    store,
		router:   r,
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// TODO: tighten for production
				return true
			},
		},
		wc:        wc,
		historyDB: db,
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/explode", s.optionsHandler("POST"))
	r.Options("/extractions", s.optionsHandler("GET"))
	r.Options("/extractions/{id}", s.optionsHandler("GET"))
	r.Options("/ws/explode", s.optionsHandler("GET"))

	r.Post("/explode", s.handleExplode)
	r.Get("/extractions", s.handleListExtractions)
	r.Get("/extractions/{id}", s.handleGetExtraction)

	// WebSocket for extraction progress
	r.Get("/ws/explode", s.handleExplodeWS)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []logging.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, logging.Field{Key: "query", Value: q})
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// Close shuts down the webclient and underlying resources.
func (s *Server) Close() {
	if s.historyDB != nil {
		s.historyDB.Close()
	}
	if s.wc != nil {
		s.wc.Close()
	}
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.AppConfig.Server.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // allow streaming
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}

// writeExtractionError maps the extraction error taxonomy onto HTTP statuses.
// Internal detail is logged but not exposed.
func (s *Server) writeExtractionError(w http.ResponseWriter, err error) {
	var verr *extractor.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, ErrKindValidation, verr.Error())
		return
	}

	var ferr *extractor.UpstreamFetchError
	if errors.As(err, &ferr) {
		writeError(w, http.StatusBadGateway, ErrKindUpstream, ferr.Error())
		return
	}

	s.logger.Error("extraction failed", logging.Field{Key: "error", Value: err.Error()})
	writeError(w, http.StatusInternalServerError, ErrKindInternal, "extraction failed")
}

// --- HTTP handlers ---

func (s *Server) handleExplode(w http.ResponseWriter, r *http.Request) {
	var body ExplodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, ErrKindValidation, "invalid JSON")
		return
	}

	assets, err := s.exploder.Explode(r.Context(), body.URL)
	if err != nil {
		s.logger.Warn("explode failed",
			logging.Field{Key: "url", Value: body.URL},
			logging.Field{Key: "error", Value: err.Error()})
		s.writeExtractionError(w, err)
		return
	}

	if _, err := s.store.Record(r.Context(), body.URL, assets); err != nil {
		// History is best-effort; the extraction itself succeeded.
		s.logger.Warn("recording extraction",
			logging.Field{Key: "url", Value: body.URL},
			logging.Field{Key: "error", Value: err.Error()})
	}

	s.logger.Info("explode succeeded",
		logging.Field{Key: "url", Value: body.URL},
		logging.Field{Key: "images", Value: len(assets.Images)},
		logging.Field{Key: "colors", Value: len(assets.Colors)},
		logging.Field{Key: "fonts", Value: len(assets.Fonts)})
	writeJSON(w, http.StatusOK, assets)
}

func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if ls := r.URL.Query().Get("limit"); ls != "" {
		if v, err := strconv.Atoi(ls); err == nil && v > 0 {
			limit = v
		}
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing extractions", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, ErrKindInternal, "listing extractions failed")
		return
	}
	s.logger.Info("listed extractions", logging.Field{Key: "count", Value: len(recs)})
	writeJSON(w, http.StatusOK, recs)
}

func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := s.store.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		writeError(w, http.StatusNotFound, "", "extraction not found")
		return
	}
	if err != nil {
		s.logger.Warn("getting extraction", logging.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, ErrKindInternal, "getting extraction failed")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// WebSocket

func (s *Server) handleExplodeWS(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("url")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Field{Key: "error", Value: err.Error()})
		return
	}
	defer conn.Close()

	ctx := r.Context()

	assets, err := s.exploder.ExplodeWithProgress(ctx, target, func(ev extractor.ProgressEvent) {
		_ = conn.WriteJSON(WSMessage{
			Type:        "progress",
			Stage:       string(ev.Stage),
			Stylesheets: ev.Stylesheets,
		})
	})
	if err != nil {
		kind := ErrKindInternal
		msg := "extraction failed"
		var verr *extractor.ValidationError
		var ferr *extractor.UpstreamFetchError
		switch {
		case errors.As(err, &verr):
			kind, msg = ErrKindValidation, verr.Error()
		case errors.As(err, &ferr):
			kind, msg = ErrKindUpstream, ferr.Error()
		default:
			s.logger.Error("extraction failed", logging.Field{Key: "error", Value: err.Error()})
		}
		_ = conn.WriteJSON(WSMessage{Type: "error", Error: msg, Kind: kind})
		return
	}

	if _, err := s.store.Record(ctx, target, assets); err != nil {
		s.logger.Warn("recording extraction",
			logging.Field{Key: "url", Value: target},
			logging.Field{Key: "error", Value: err.Error()})
	}

	_ = conn.WriteJSON(WSMessage{Type: "result", Result: assets})
}
