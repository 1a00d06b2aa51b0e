// Package replay records arena ticks as a stream of msgpack frames.
package replay

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"SentryArena/internal/game"
)

type Vec struct {
	X float64 `msgpack:"x"`
	Y float64 `msgpack:"y"`
	Z float64 `msgpack:"z"`
}

func vec(v game.Vec3) Vec { return Vec{X: v.X, Y: v.Y, Z: v.Z} }

type AgentFrame struct {
	ID       int64  `msgpack:"id"`
	Name     string `msgpack:"name"`
	Pos      Vec    `msgpack:"pos"`
	Forward  Vec    `msgpack:"fwd"`
	State    string `msgpack:"state"`
	Health   int    `msgpack:"hp"`
	Ammo     int    `msgpack:"ammo"`
	Waypoint int    `msgpack:"wp"`
}

type PlayerFrame struct {
	Pos     Vec `msgpack:"pos"`
	Forward Vec `msgpack:"fwd"`
	Health  int `msgpack:"hp"`
	Ammo    int `msgpack:"ammo"`
}

type ProjectileFrame struct {
	ID    string `msgpack:"id"`
	Pos   Vec    `msgpack:"pos"`
	Owner string `msgpack:"owner"`
}

type EventFrame struct {
	Kind   string `msgpack:"kind"`
	Entity int64  `msgpack:"entity"`
	Other  int64  `msgpack:"other,omitempty"`
	Amount int    `msgpack:"amount,omitempty"`
	Detail string `msgpack:"detail,omitempty"`
}

// Frame is one recorded tick.
type Frame struct {
	Tick        uint64            `msgpack:"tick"`
	Now         float64           `msgpack:"now"`
	Score       int               `msgpack:"score"`
	Agents      []AgentFrame      `msgpack:"agents"`
	Player      *PlayerFrame      `msgpack:"player,omitempty"`
	Projectiles []ProjectileFrame `msgpack:"projectiles"`
	Events      []EventFrame      `msgpack:"events,omitempty"`
}

// FrameFrom flattens a snapshot and the events raised since the previous
// frame.
func FrameFrom(snap game.Snapshot, events []game.Event) Frame {
	f := Frame{Tick: snap.Tick, Now: snap.Now, Score: snap.Score}
	for _, a := range snap.Agents {
		f.Agents = append(f.Agents, AgentFrame{
			ID:       int64(a.ID),
			Name:     a.Name,
			Pos:      vec(a.Pos),
			Forward:  vec(a.Forward),
			State:    a.State.String(),
			Health:   a.Health,
			Ammo:     a.Ammo.Current,
			Waypoint: a.Waypoint,
		})
	}
	if p := snap.Player; p != nil {
		f.Player = &PlayerFrame{Pos: vec(p.Pos), Forward: vec(p.Forward), Health: p.Health, Ammo: p.Ammo.Current}
	}
	for _, p := range snap.Projectiles {
		f.Projectiles = append(f.Projectiles, ProjectileFrame{ID: p.ID, Pos: vec(p.Pos), Owner: p.OwnerKind.String()})
	}
	for _, e := range events {
		f.Events = append(f.Events, EventFrame{
			Kind:   string(e.Kind),
			Entity: int64(e.Entity),
			Other:  int64(e.Other),
			Amount: e.Amount,
			Detail: e.Detail,
		})
	}
	return f
}

// Recorder appends frames to a stream. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	enc    *msgpack.Encoder
	closer io.Closer
	frames int
	closed bool
}

// ErrClosed is returned by Record once the recorder has been closed.
var ErrClosed = errors.New("recording closed")

func NewRecorder(w io.Writer) *Recorder {
	buf := bufio.NewWriter(w)
	r := &Recorder{buf: buf, enc: msgpack.NewEncoder(buf)}
	if c, ok := w.(io.Closer); ok {
		r.closer = c
	}
	return r
}

// Create opens path for recording, creating parent directories.
func Create(path string) (*Recorder, error) {
	cleanPath := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create recording directory: %w", err)
	}
	f, err := os.Create(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("create recording %q: %w", cleanPath, err)
	}
	return NewRecorder(f), nil
}

func (r *Recorder) Record(f Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return fmt.Errorf("frame %d: %w", f.Tick, ErrClosed)
	}
	if err := r.enc.Encode(&f); err != nil {
		return fmt.Errorf("encode frame %d: %w", f.Tick, err)
	}
	r.frames++
	return nil
}

func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close flushes buffered frames and closes the underlying writer when it is
// closable. Closing twice is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.buf.Flush()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
		r.closer = nil
	}
	return err
}

type Reader struct {
	dec *msgpack.Decoder
}

func NewReader(r io.Reader) *Reader {
	return &Reader{dec: msgpack.NewDecoder(bufio.NewReader(r))}
}

// Next decodes the next frame. It returns io.EOF after the last one.
func (r *Reader) Next() (Frame, error) {
	var f Frame
	if err := r.dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Frame{}, io.EOF
		}
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	return f, nil
}

func ReadAll(r io.Reader) ([]Frame, error) {
	reader := NewReader(r)
	var out []Frame
	for {
		f, err := reader.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, f)
	}
}

// ReadFile decodes every frame of a recording on disk.
func ReadFile(path string) ([]Frame, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()
	return ReadAll(f)
}
