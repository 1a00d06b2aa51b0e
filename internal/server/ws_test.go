package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"SentryArena/internal/scenario"
)

func newTestHost(t *testing.T) *Host {
	t.Helper()
	logger := log.New(io.Discard)
	arena, err := scenario.Default().Build(logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return NewHost(arena, logger)
}

func dialTest(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until match accepts one or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, match func(msgType int, data []byte) bool) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msgType, data) {
			return
		}
	}
}

func decodeFrame(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var s structpb.Struct
	if err := proto.Unmarshal(data, &s); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	return s.AsMap()
}

// A connection first receives the layout, then periodic state frames.
func TestWebSocketStreamsState(t *testing.T) {
	host := newTestHost(t)
	srv := httptest.NewServer(NewMux(host, 50))
	defer srv.Close()

	conn := dialTest(t, srv, "")
	msgType, data, err := conn.ReadMessage()
	if err != nil || msgType != websocket.BinaryMessage {
		t.Fatalf("expected binary hello, got type=%d err=%v", msgType, err)
	}
	hello := decodeFrame(t, data)
	if hello["type"] != "hello" {
		t.Fatalf("expected hello first, got %v", hello["type"])
	}
	if obstacles, _ := hello["obstacles"].([]any); len(obstacles) != 2 {
		t.Fatalf("expected 2 obstacles in hello, got %v", hello["obstacles"])
	}

	host.Step()
	readUntil(t, conn, func(msgType int, data []byte) bool {
		if msgType != websocket.BinaryMessage {
			return false
		}
		state := decodeFrame(t, data)
		if state["type"] != "state" || state["tick"].(float64) < 1 {
			return false
		}
		agents, _ := state["agents"].([]any)
		if len(agents) != 3 {
			t.Fatalf("expected 3 agents, got %d", len(agents))
		}
		return true
	})
}

// Commands are acknowledged on the text channel and change the arena.
func TestWebSocketCommands(t *testing.T) {
	host := newTestHost(t)
	srv := httptest.NewServer(NewMux(host, 50))
	defer srv.Close()
	conn := dialTest(t, srv, "")

	send := func(v any) {
		if err := conn.WriteJSON(v); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	awaitReply := func(command string) replyDTO {
		var reply replyDTO
		readUntil(t, conn, func(msgType int, data []byte) bool {
			if msgType != websocket.TextMessage {
				return false
			}
			if err := json.Unmarshal(data, &reply); err != nil {
				t.Fatalf("reply: %v", err)
			}
			return reply.Command == command
		})
		return reply
	}

	send(map[string]any{"type": "move", "payload": map[string]any{"x": 5, "z": 5}})
	if r := awaitReply("move"); !r.OK {
		t.Fatalf("move failed: %+v", r)
	}
	send(map[string]any{"type": "look", "payload": map[string]any{"x": 1, "y": 0, "z": 0}})
	if r := awaitReply("look"); !r.OK {
		t.Fatalf("look failed: %+v", r)
	}
	send(map[string]any{"type": "fire"})
	if r := awaitReply("fire"); !r.OK || !r.Fired {
		t.Fatalf("fire failed: %+v", r)
	}
	send(map[string]any{"type": "replenish", "payload": map[string]any{"amount": 10}})
	if r := awaitReply("replenish"); !r.OK || r.Added != 1 {
		t.Fatalf("replenish should top up one round: %+v", r)
	}
	send(map[string]any{"type": "dance"})
	if r := awaitReply("dance"); r.OK || r.Error == "" {
		t.Fatalf("unknown command should fail: %+v", r)
	}

	host.Mu.Lock()
	p := host.arena.Player()
	pos, fwd := p.Transform.Pos, p.Transform.Forward
	host.Mu.Unlock()
	if pos.X != 5 || pos.Z != 5 || fwd.X != 1 {
		t.Fatalf("player not updated: pos=%+v fwd=%+v", pos, fwd)
	}
}

func TestWebSocketSpectatorCannotCommand(t *testing.T) {
	host := newTestHost(t)
	srv := httptest.NewServer(NewMux(host, 50))
	defer srv.Close()
	conn := dialTest(t, srv, "?spectate=1")

	if err := conn.WriteJSON(map[string]any{"type": "fire"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, func(msgType int, data []byte) bool {
		if msgType != websocket.TextMessage {
			return false
		}
		var reply replyDTO
		_ = json.Unmarshal(data, &reply)
		if reply.OK || reply.Error != errSpectator.Error() {
			t.Fatalf("expected spectator rejection, got %+v", reply)
		}
		return true
	})
}

func TestHealthz(t *testing.T) {
	host := newTestHost(t)
	host.Step()
	host.Step()
	srv := httptest.NewServer(NewMux(host, 50))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var health healthDTO
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if health.Status != "ok" || health.Tick != 2 || health.Agents != 3 {
		t.Fatalf("unexpected health %+v", health)
	}
}
