package authority

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

// route answers one endpoint: it gets the decoded request body and returns a
// status and a reply body.
type route func(body map[string]any) (int, any)

// stub emulates the authority. It serves the HTTP API and a WebSocket gateway
// from the same route table and records what it received.
type stub struct {
	mu       sync.Mutex
	routes   map[string]route
	bodies   map[string]map[string]any
	headers  map[string]http.Header
	requests []string
}

func newStub() *stub {
	return &stub{
		routes:  map[string]route{},
		bodies:  map[string]map[string]any{},
		headers: map[string]http.Header{},
	}
}

func (s *stub) on(name string, r route) { s.routes[name] = r }

func (s *stub) dispatch(name string, body map[string]any, h http.Header) (int, any) {
	s.mu.Lock()
	s.requests = append(s.requests, name)
	s.bodies[name] = body
	s.headers[name] = h
	r := s.routes[name]
	s.mu.Unlock()
	if r == nil {
		return http.StatusNotFound, map[string]any{"error": "no route " + name}
	}
	return r(body)
}

func (s *stub) body(name string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bodies[name]
}

func (s *stub) header(name string) http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.headers[name]
}

func (s *stub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/")
	var body map[string]any
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
	}
	status, resp := s.dispatch(name, body, r.Header.Clone())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// serveWS is the gateway: every frame is routed by its t field and answered
// with the same id.
func (s *stub) serveWS(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		return
	}
	defer c.Close(websocket.StatusNormalClosure, "bye")
	ctx := context.Background()
	for {
		var f frame
		if err := wsjson.Read(ctx, c, &f); err != nil {
			return
		}
		var body map[string]any
		if len(f.M) > 0 {
			_ = json.Unmarshal(f.M, &body)
		}
		status, resp := s.dispatch(f.T, body, r.Header.Clone())
		out := frame{T: f.T, ID: f.ID, Status: status}
		if status >= 400 {
			if m, ok := resp.(map[string]any); ok {
				out.Error, _ = m["error"].(string)
			}
		} else {
			out.M, _ = json.Marshal(resp)
		}
		if err := wsjson.Write(ctx, c, out); err != nil {
			return
		}
	}
}

func emptyBoard() [][]int {
	rows := make([][]int, 20)
	for i := range rows {
		rows[i] = make([]int, 20)
	}
	return rows
}

func fixed(status int, resp any) route {
	return func(map[string]any) (int, any) { return status, resp }
}

func newServer(t *testing.T, s *stub) string {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return srv.URL
}

func newHTTPStub(t *testing.T) (*stub, *Client) {
	t.Helper()
	s := newStub()
	c, err := Dial(context.Background(), newServer(t, s), WithSessionID("sess-1"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return s, c
}

func newWSStub(t *testing.T) (*stub, *Client) {
	t.Helper()
	s := newStub()
	srv := httptest.NewServer(http.HandlerFunc(s.serveWS))
	t.Cleanup(srv.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	c, err := Dial(context.Background(), url, WithSessionID("sess-ws"))
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return s, c
}
