// Package testutil provides shared test doubles for use across package tests.
// All dummies implement the corresponding interfaces from the production code,
// allowing injection into components under test without real I/O or side effects.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/raysh454/exploder/internal/logging"
	"github.com/raysh454/exploder/internal/model"
)

// ─── Logger ────────────────────────────────────────────────────────────

// DummyLogger implements logging.Logger with in-memory recording.
type DummyLogger struct {
	mu     sync.Mutex
	Errors []string
	Infos  []string
	Debugs []string
	Warns  []string
}

func (l *DummyLogger) Debug(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Debugs = append(l.Debugs, msg)
}

func (l *DummyLogger) Info(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Infos = append(l.Infos, msg)
}

func (l *DummyLogger) Warn(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Warns = append(l.Warns, msg)
}

func (l *DummyLogger) Error(msg string, fields ...logging.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Errors = append(l.Errors, msg)
}

func (l *DummyLogger) With(_ ...logging.Field) logging.Logger { return l }

// WarnCount returns how many warnings were recorded.
func (l *DummyLogger) WarnCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Warns)
}

// ─── WebClient ─────────────────────────────────────────────────────────

// DummyPage is a canned response served by DummyWebClient.
type DummyPage struct {
	Body        string
	StatusCode  int // 0 means 200
	ContentType string
}

// DummyWebClient implements interfaces.WebClient from an in-memory page map.
// Unknown URLs return 404. Set FailURLs[url] = true to force a transport
// error for a specific URL.
type DummyWebClient struct {
	Pages         map[string]DummyPage
	FailURLs      map[string]bool
	ResponseDelay time.Duration

	mu       sync.Mutex
	Requests []*model.Request
}

func (d *DummyWebClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if d.ResponseDelay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(d.ResponseDelay):
		}
	}

	d.mu.Lock()
	d.Requests = append(d.Requests, req)
	d.mu.Unlock()

	if d.FailURLs[req.URL] {
		return nil, fmt.Errorf("dummy webclient: forced failure for %s", req.URL)
	}

	page, ok := d.Pages[req.URL]
	if !ok {
		return &model.Response{
			Request:    req,
			StatusCode: http.StatusNotFound,
			Headers:    http.Header{},
			FetchedAt:  time.Now(),
		}, nil
	}

	status := page.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	contentType := page.ContentType
	if contentType == "" {
		contentType = "text/html; charset=utf-8"
	}

	headers := http.Header{}
	headers.Set("Content-Type", contentType)

	return &model.Response{
		Request:    req,
		Body:       []byte(page.Body),
		Headers:    headers,
		StatusCode: status,
		FetchedAt:  time.Now(),
	}, nil
}

func (d *DummyWebClient) Get(ctx context.Context, url string) (*model.Response, error) {
	return d.Do(ctx, &model.Request{Method: "GET", URL: url})
}

func (d *DummyWebClient) Close() error { return nil }

// RequestedURLs returns the URLs requested so far, in order.
func (d *DummyWebClient) RequestedURLs() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.Requests))
	for _, r := range d.Requests {
		out = append(out, r.URL)
	}
	return out
}
