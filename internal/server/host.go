package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"SentryArena/internal/game"
	"SentryArena/internal/replay"
)

// Host owns the arena for the server. Every access to the arena goes through
// Mu; the tick loop and connection handlers take it in turn.
type Host struct {
	Mu       sync.Mutex
	arena    *game.Arena
	log      *log.Logger
	recorder *replay.Recorder
	recSeq   uint64
	conns    int
}

func NewHost(arena *game.Arena, logger *log.Logger) *Host {
	if logger == nil {
		logger = log.Default()
	}
	return &Host{arena: arena, log: logger}
}

func (h *Host) SetRecorder(rec *replay.Recorder) {
	h.Mu.Lock()
	h.recorder = rec
	h.recSeq = h.arena.Journal.Total()
	h.Mu.Unlock()
}

// Step advances the arena by one tick and records the result.
func (h *Host) Step() {
	h.Mu.Lock()
	h.arena.Tick()
	var frame *replay.Frame
	if h.recorder != nil {
		var events []game.Event
		events, h.recSeq = h.arena.Journal.Tail(h.recSeq)
		f := replay.FrameFrom(h.arena.Snapshot(), events)
		frame = &f
	}
	rec := h.recorder
	h.Mu.Unlock()

	if frame != nil {
		if err := rec.Record(*frame); err != nil {
			h.log.Error("record frame", "tick", frame.Tick, "err", err)
		}
	}
}

// Run ticks the arena at hz wall-clock ticks per second until ctx is done.
func (h *Host) Run(ctx context.Context, hz float64) {
	ticker := time.NewTicker(time.Duration(float64(time.Second) / hz))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Step()
		}
	}
}

// Start runs the tick loop in its own goroutine. The returned stop function
// cancels the loop and waits until the last Step has finished.
func (h *Host) Start(ctx context.Context, hz float64) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Run(ctx, hz)
	}()
	return func() {
		cancel()
		<-done
	}
}

// Snapshot returns the current arena state together with the events pushed
// after seq and the next sequence number.
func (h *Host) Snapshot(seq uint64) (game.Snapshot, []game.Event, uint64) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	events, next := h.arena.Journal.Tail(seq)
	return h.arena.Snapshot(), events, next
}

// Sequence is the journal position a new watcher starts from.
func (h *Host) Sequence() uint64 {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.arena.Journal.Total()
}

func (h *Host) Connections() int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	return h.conns
}

func (h *Host) connected(delta int) int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	h.conns += delta
	return h.conns
}
