package server

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/metrics"
	"github.com/vango-dev/reconcile/pkg/protocol"
)

const (
	listAB  = `{"sel":"ul","key":"l","children":[{"sel":"li","key":1,"children":["a"]},{"sel":"li","key":2,"children":["b"]}]}`
	listBA  = `{"sel":"ul","key":"l","children":[{"sel":"li","key":2,"children":["b"]},{"sel":"li","key":1,"children":["a"]}]}`
	badAttr = `{"sel":"div","key":1,"data":{"attrs":{"bad name":"x"}},"children":[]}`
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	reg := prometheus.NewRegistry()
	srv, err := New(&ServerConfig{
		Metrics:  metrics.New(metrics.WithRegistry(reg)),
		Gatherer: reg,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		srv.Sessions().Shutdown()
		ts.Close()
	})
	return srv, ts
}

func postPatch(t *testing.T, ts *httptest.Server, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/patch", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func countPrefix(lines []string, prefix string) int {
	n := 0
	for _, l := range lines {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}

func TestNewRejectsUnknownModule(t *testing.T) {
	if _, err := New(&ServerConfig{Modules: []string{"attrs", "nope"}}); err == nil {
		t.Error("expected error for unknown module")
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestPatchMount(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := postPatch(t, ts, `{"old":null,"new":{"sel":"p","key":"p","children":["hi"]}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var got PatchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.HTML != "<p>hi</p>" {
		t.Errorf("HTML = %q", got.HTML)
	}
	if got.Elm == 0 {
		t.Error("Elm should be set after a mount")
	}
	if got.Stats.Created != 2 || got.Stats.Inserted != 2 {
		t.Errorf("Stats = %+v, want 2 created, 2 inserted", got.Stats)
	}
	if n := countPrefix(got.Hooks, "create "); n != 2 {
		t.Errorf("create hooks = %d, want 2: %v", n, got.Hooks)
	}
	if n := countPrefix(got.Hooks, "insert "); n != 2 {
		t.Errorf("insert hooks = %d, want 2: %v", n, got.Hooks)
	}
	if n := countPrefix(got.Journal, "Insert "); n != 2 {
		t.Errorf("Insert mutations = %d, want 2: %v", n, got.Journal)
	}
}

func TestPatchReportsOnlySecondTree(t *testing.T) {
	_, ts := newTestServer(t)
	resp, body := postPatch(t, ts, `{"old":`+listAB+`,"new":`+listBA+`}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}

	var got PatchResponse
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.HTML != "<ul><li>b</li><li>a</li></ul>" {
		t.Errorf("HTML = %q", got.HTML)
	}
	if got.Stats.Created != 0 || got.Stats.Moved != 1 {
		t.Errorf("Stats = %+v, want 0 created, 1 moved", got.Stats)
	}
	if len(got.Journal) != 1 || !strings.HasPrefix(got.Journal[0], "Insert ") {
		t.Errorf("Journal = %v, want one Insert", got.Journal)
	}
	if n := countPrefix(got.Hooks, "move "); n != 1 {
		t.Errorf("move hooks = %d, want 1: %v", n, got.Hooks)
	}
	if n := countPrefix(got.Hooks, "create "); n != 0 {
		t.Errorf("mount hooks leaked into trace: %v", got.Hooks)
	}
}

func TestPatchErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"malformed json", `{"old":`, http.StatusBadRequest, "R010"},
		{"missing key", `{"new":{"sel":"div","children":[]}}`, http.StatusBadRequest, "R010"},
		{"two kinds", `{"new":{"sel":"div","key":1,"text":"x"}}`, http.StatusBadRequest, "R010"},
		{"applier failure", `{"new":` + badAttr + `}`, http.StatusUnprocessableEntity, "R004"},
	}

	_, ts := newTestServer(t)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := postPatch(t, ts, tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, tc.status, body)
			}
			var got ErrorResponse
			if err := json.Unmarshal(body, &got); err != nil {
				t.Fatal(err)
			}
			if got.Code != tc.code {
				t.Errorf("code = %q, want %q (%+v)", got.Code, tc.code, got)
			}
		})
	}
}

func TestPatchBodyLimit(t *testing.T) {
	reg := prometheus.NewRegistry()
	srv, err := New(&ServerConfig{
		ReadLimit: 16,
		Metrics:   metrics.New(metrics.WithRegistry(reg)),
		Gatherer:  reg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(srv)
	defer ts.Close()

	resp, _ := postPatch(t, ts, `{"old":null,"new":`+listAB+`}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// roundTrip sends doc and reads frames until the batch is complete.
func roundTrip(t *testing.T, conn *websocket.Conn, doc string) (*protocol.Batch, error) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(doc)); err != nil {
		t.Fatal(err)
	}
	var frames []*protocol.Frame
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if msgType != websocket.BinaryMessage {
			t.Fatalf("message type = %d, want binary", msgType)
		}
		f, err := protocol.DecodeFrame(msg)
		if err != nil {
			t.Fatal(err)
		}
		frames = append(frames, f)
		if f.Type == protocol.FrameError || f.Flags.Has(protocol.FlagFinal) {
			return protocol.JoinFrames(frames)
		}
	}
}

func TestWebSocketSession(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	b, err := roundTrip(t, conn, listAB)
	if err != nil {
		t.Fatal(err)
	}
	if b.Seq != 1 {
		t.Errorf("first Seq = %d, want 1", b.Seq)
	}
	if len(b.Mutations) == 0 || b.Mutations[0].Op != host.OpCreateElement {
		t.Errorf("first batch should start with CreateElement: %v", b.Mutations)
	}
	if n := srv.Sessions().Count(); n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}
	srv.Sessions().ForEach(func(s *Session) bool {
		if id, err := uuid.Parse(s.ID); err != nil || id.Version() != 7 {
			t.Errorf("session ID %q is not a v7 UUID", s.ID)
		}
		return true
	})

	b, err = roundTrip(t, conn, listBA)
	if err != nil {
		t.Fatal(err)
	}
	if b.Seq != 2 || len(b.Mutations) != 1 || b.Mutations[0].Op != host.OpInsert {
		t.Errorf("reorder batch = seq %d %v, want seq 2 with one Insert", b.Seq, b.Mutations)
	}

	// A bad document is rejected without touching the session.
	_, err = roundTrip(t, conn, `{"sel":"div"}`)
	var em *protocol.ErrorMessage
	if !stderrors.As(err, &em) {
		t.Fatalf("expected error frame, got %v", err)
	}
	if em.Code != "R010" || em.Fatal {
		t.Errorf("error frame = %+v, want non-fatal R010", em)
	}

	b, err = roundTrip(t, conn, listBA)
	if err != nil {
		t.Fatal(err)
	}
	if b.Seq != 3 || len(b.Mutations) != 0 {
		t.Errorf("no-op batch = seq %d %v, want seq 3 and no mutations", b.Seq, b.Mutations)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"reconcile_patches_total", "reconcile_active_sessions", "reconcile_hooks_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %s", name)
		}
	}
}

func TestWebSocketFatalPatch(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	_, err := roundTrip(t, conn, badAttr)
	var em *protocol.ErrorMessage
	if !stderrors.As(err, &em) {
		t.Fatalf("expected error frame, got %v", err)
	}
	if em.Code != "R004" || !em.Fatal {
		t.Errorf("error frame = %+v, want fatal R004", em)
	}

	_, _, err = conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseInternalServerErr) {
		t.Errorf("expected close 1011, got %v", err)
	}
}

func TestWebSocketRejectsBinary(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)

	if err := conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatal(err)
	}
	f, err := protocol.DecodeFrame(msg)
	if err != nil {
		t.Fatal(err)
	}
	if f.Type != protocol.FrameError {
		t.Errorf("frame type = %v, want error", f.Type)
	}

	// The session survives.
	if b, err := roundTrip(t, conn, listAB); err != nil || b.Seq != 1 {
		t.Errorf("after rejection: batch %v, err %v", b, err)
	}
}
