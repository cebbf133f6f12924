package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/raysh454/exploder/internal/app"
	"github.com/raysh454/exploder/internal/interfaces"
	"github.com/raysh454/exploder/internal/model"
	"github.com/raysh454/exploder/internal/server"
	"github.com/raysh454/exploder/internal/testutil"
	"github.com/raysh454/exploder/internal/webclient"
)

// newTestServer builds a Server whose webclient serves pages from memory.
func newTestServer(t *testing.T, pages map[string]testutil.DummyPage) (*httptest.Server, *server.Server) {
	t.Helper()

	stub := &testutil.DummyWebClient{Pages: pages}
	backend := fmt.Sprintf("stub-%s", strings.ToLower(t.Name()))
	webclient.RegisterBackend(backend, func(cfg webclient.Config, logger interfaces.Logger) (interfaces.WebClient, error) {
		return stub, nil
	})

	cfg := app.DefaultConfig()
	cfg.WebClient.Client = webclient.Client(backend)

	srv, err := server.NewServer(server.Config{
		AppConfig: cfg,
		Logger:    &testutil.DummyLogger{},
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, srv
}

func postExplode(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/explode", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("POST /explode: %v", err)
	}
	return resp
}

const samplePage = `<html><head>
	<style>h1 { color: #1af; font-family: Georgia, serif }</style>
</head><body>
	<img src="/logo.png">
</body></html>`

func TestHandleExplode_Success(t *testing.T) {
	ts, _ := newTestServer(t, map[string]testutil.DummyPage{
		"https://x.com/": {Body: samplePage},
	})

	resp := postExplode(t, ts, `{"url":"https://x.com/"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var assets model.Assets
	if err := json.NewDecoder(resp.Body).Decode(&assets); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(assets.Images) != 1 || assets.Images[0] != "https://x.com/logo.png" {
		t.Errorf("Images = %v", assets.Images)
	}
	if len(assets.Colors) != 1 || assets.Colors[0] != "#11AAFF" {
		t.Errorf("Colors = %v", assets.Colors)
	}
	if len(assets.Fonts) != 2 {
		t.Errorf("Fonts = %v", assets.Fonts)
	}
}

func TestHandleExplode_InvalidJSON(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := postExplode(t, ts, `{not json`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestHandleExplode_ValidationError(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp := postExplode(t, ts, `{"url":"not-a-url"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var errResp server.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	if errResp.Kind != server.ErrKindValidation {
		t.Errorf("Kind = %q, want validation", errResp.Kind)
	}
}

func TestHandleExplode_UpstreamError(t *testing.T) {
	ts, _ := newTestServer(t, map[string]testutil.DummyPage{
		"https://x.com/gone": {Body: "gone", StatusCode: http.StatusNotFound},
	})

	resp := postExplode(t, ts, `{"url":"https://x.com/gone"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", resp.StatusCode)
	}

	var errResp server.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error payload: %v", err)
	}
	if errResp.Kind != server.ErrKindUpstream {
		t.Errorf("Kind = %q, want upstream", errResp.Kind)
	}
	if !strings.Contains(errResp.Error, "404") {
		t.Errorf("error should carry the upstream status detail: %q", errResp.Error)
	}
}

func TestExtractionsHistory(t *testing.T) {
	ts, _ := newTestServer(t, map[string]testutil.DummyPage{
		"https://x.com/": {Body: samplePage},
	})

	resp := postExplode(t, ts, `{"url":"https://x.com/"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("explode status = %d", resp.StatusCode)
	}

	listResp, err := http.Get(ts.URL + "/extractions")
	if err != nil {
		t.Fatalf("GET /extractions: %v", err)
	}
	defer listResp.Body.Close()

	var recs []struct {
		ID     string       `json:"id"`
		RawURL string       `json:"url"`
		Assets model.Assets `json:"assets"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&recs); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].RawURL != "https://x.com/" {
		t.Errorf("RawURL = %q", recs[0].RawURL)
	}

	getResp, err := http.Get(ts.URL + "/extractions/" + recs[0].ID)
	if err != nil {
		t.Fatalf("GET /extractions/{id}: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Errorf("get status = %d, want 200", getResp.StatusCode)
	}
}

func TestGetExtraction_Unknown(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/extractions/no-such-id")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestExplodeWS_StreamsProgressThenResult(t *testing.T) {
	ts, _ := newTestServer(t, map[string]testutil.DummyPage{
		"https://x.com/": {Body: samplePage},
	})

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) +
		"/ws/explode?url=" + url.QueryEscape("https://x.com/")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var sawProgress bool
	for {
		var msg server.WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("reading frame: %v", err)
		}
		switch msg.Type {
		case "progress":
			sawProgress = true
		case "result":
			if !sawProgress {
				t.Error("expected progress frames before the result")
			}
			return
		case "error":
			t.Fatalf("unexpected error frame: %+v", msg)
		}
	}
}

func TestExplodeWS_ErrorFrameForBadURL(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws/explode?url=bogus"

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var msg server.WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if msg.Type != "error" {
		t.Fatalf("expected error frame, got %+v", msg)
	}
	if msg.Kind != server.ErrKindValidation {
		t.Errorf("Kind = %q, want validation", msg.Kind)
	}
}
