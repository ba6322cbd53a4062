package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/svanholm/plotpin/pkg/config"
	"github.com/svanholm/plotpin/pkg/engine"
	"github.com/svanholm/plotpin/pkg/scene"
)

func newTestServer() *Server {
	eng := engine.New(config.Default(), nil, nil, nil, nil)
	return New(eng, log.New(io.Discard))
}

func postLayout(t *testing.T, srv *Server, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestLayoutEndpoint(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(layoutRequest{Scene: scene.Scene{
		Anchors: []scene.Anchor{{ID: "a", X: 0, Y: 0}},
		Bounds:  scene.Bounds{XRange: 10, YRange: 10},
	}})

	rec := postLayout(t, srv, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result engine.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	got, ok := result.Labels["a"]
	if !ok || !got.Resolved {
		t.Errorf("label a = %+v, ok = %v", got, ok)
	}
}

func TestLayoutEndpointMalformedBody(t *testing.T) {
	srv := newTestServer()

	rec := postLayout(t, srv, []byte("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "INVALID_FORMAT" {
		t.Errorf("error code = %q, want INVALID_FORMAT", resp.Code)
	}
}

func TestLayoutEndpointInvalidBounds(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(layoutRequest{Scene: scene.Scene{
		Anchors: []scene.Anchor{{ID: "a"}},
	}})

	rec := postLayout(t, srv, body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for zero bounds", rec.Code)
	}

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Code != "INVALID_BOUNDS" {
		t.Errorf("error code = %q, want INVALID_BOUNDS", resp.Code)
	}
}

func TestHealthAndVersion(t *testing.T) {
	srv := newTestServer()

	for _, path := range []string{"/healthz", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, rec.Code)
		}
	}
}
