// Package demoserver serves small CSS-heavy pages for demonstrating the
// extractor locally: inline styles, embedded blocks, linked stylesheets, a
// font-service link, responsive images and a stylesheet that always fails.
package demoserver

import (
	"fmt"
	"net/http"
)

// DemoServer is a simple HTTP server providing extraction targets.
type DemoServer struct {
	cfg Config
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config) *DemoServer {
	return &DemoServer{cfg: cfg}
}

// Handler returns the demo site as an http.Handler, also usable under
// httptest in examples and tests.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.indexHandler)
	mux.HandleFunc("/about", s.aboutHandler)
	mux.HandleFunc("/css/site.css", s.siteCSSHandler)
	mux.HandleFunc("/css/theme.css", s.themeCSSHandler)
	mux.HandleFunc("/css/flaky.css", s.flakyCSSHandler)
	mux.HandleFunc("/img/", s.imageHandler)

	return mux
}

// Start starts the demo server.
func (s *DemoServer) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	fmt.Printf("Demo server starting on http://localhost%s\n", addr)
	fmt.Printf("Point the exploder at http://localhost%s/ to try it out\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *DemoServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head>
  <title>Exploder Demo</title>
  <link rel="stylesheet" href="/css/site.css">
  <link rel="stylesheet" href="/css/theme.css">
  <link rel="stylesheet" href="/css/flaky.css">
  <link rel="stylesheet" href="https://fonts.googleapis.com/css?family=Roboto+Slab|Open+Sans">
  <style>
    @font-face {
      font-family: "Demo Sans";
      src: url(/fonts/demo-sans.woff2) format("woff2");
    }
    h1 { color: #222; font-family: "Demo Sans", sans-serif; }
  </style>
</head>
<body>
  <header style="background: url(/img/banner.png); color: #fff">
    <h1>Design asset playground</h1>
  </header>
  <img src="/img/logo.png" alt="logo">
  <img src="/img/photo.jpg" srcset="/img/photo.jpg 1x, /img/photo@2x.jpg 2x" alt="photo">
  <img src="data:image/gif;base64,R0lGODlhAQABAAAAACw=" alt="spacer">
  <p style="color: #1af">Inline styled paragraph.</p>
  <a href="/about">about</a>
</body>
</html>`)
}

func (s *DemoServer) aboutHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, `<html><head><link rel="stylesheet" href="/css/site.css"></head>
<body><p style="font-family: Courier New, monospace">A second page.</p></body></html>`)
}

func (s *DemoServer) siteCSSHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	fmt.Fprint(w, `body {
  font-family: Georgia, "Times New Roman", serif;
  color: #333333;
  background-color: #fafafa;
}
a { color: #0066cc; }
.hero { background-image: url("/img/hero.jpg"); }
`)
}

func (s *DemoServer) themeCSSHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	fmt.Fprint(w, `.accent { color: #e91e63; }
.muted { color: #999; }
.tile { background: url('../img/tile.png'); }
`)
}

// flakyCSSHandler always fails, demonstrating that a broken stylesheet only
// shrinks the corpus instead of failing the extraction.
func (s *DemoServer) flakyCSSHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "upstream hiccup", http.StatusBadGateway)
}

func (s *DemoServer) imageHandler(w http.ResponseWriter, r *http.Request) {
	// 1x1 placeholder; the extractor only cares about the URL.
	w.Header().Set("Content-Type", "image/png")
	w.Write([]byte{0x89, 'P', 'N', 'G'})
}
