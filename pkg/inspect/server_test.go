package inspect

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bindery-dev/bindery/pkg/reactive"
)

func newTestServer(t *testing.T, reg *Registry) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewServer(reg).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestServerHealthz(t *testing.T) {
	ts := newTestServer(t, NewRegistry())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServerState(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("counter", CellSource(reactive.NewCell(42)))
	reg.MustRegister("todos", ListSource(reactive.NewListOf("a")))
	ts := newTestServer(t, reg)

	resp, err := http.Get(ts.URL + "/state")
	if err != nil {
		t.Fatalf("state request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	var entries []Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "counter" || entries[0].Kind != reactive.KindCell {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	// JSON numbers decode as float64 through the any field.
	if v, ok := entries[0].Value.(float64); !ok || v != 42 {
		t.Errorf("expected counter value 42, got %v", entries[0].Value)
	}
}

func TestServerMetricsExposition(t *testing.T) {
	ts := newTestServer(t, NewRegistry())

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestServerLiveStream(t *testing.T) {
	reg := NewRegistry()
	counter := reactive.NewCell(0)
	reg.MustRegister("counter", CellSource(counter))
	ts := newTestServer(t, reg)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	counter.Set(5)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var update struct {
		Name    string  `json:"name"`
		Kind    string  `json:"kind"`
		Payload float64 `json:"payload"`
	}
	if err := conn.ReadJSON(&update); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	if update.Name != "counter" {
		t.Errorf("expected source name counter, got %q", update.Name)
	}
	if update.Kind != "cell" {
		t.Errorf("expected kind cell, got %q", update.Kind)
	}
	if update.Payload != 5 {
		t.Errorf("expected payload 5, got %v", update.Payload)
	}
}

func TestServerLiveStreamReleasesWatchOnClose(t *testing.T) {
	reg := NewRegistry()
	counter := reactive.NewCell(0)
	reg.MustRegister("counter", CellSource(counter))
	ts := newTestServer(t, reg)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}

	// The connection holds one watch subscription on the cell.
	deadline := time.Now().Add(5 * time.Second)
	for counter.SubscriberCount() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 1 subscriber while connected, got %d", counter.SubscriberCount())
		}
		time.Sleep(10 * time.Millisecond)
	}

	conn.Close()

	for counter.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("expected watch released after close, still %d subscribers", counter.SubscriberCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}
