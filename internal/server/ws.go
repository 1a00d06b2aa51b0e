package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
	"google.golang.org/protobuf/proto"

	"SentryArena/internal/game"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var errSpectator = errors.New("spectators cannot send commands")

// sendProtoMessage marshals a protobuf message and sends it as a binary WebSocket frame
func sendProtoMessage(conn *websocket.Conn, payload proto.Message) error {
	data, err := proto.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

func serveWS(h *Host, sendHz float64, w http.ResponseWriter, r *http.Request) {
	spectator := r.URL.Query().Get("spectate") == "1"

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade", "err", err)
		return
	}
	connID := uuid.NewV4().String()
	logger := h.log.With("conn", connID[:8])
	logger.Info("connected", "remote", r.RemoteAddr, "spectator", spectator, "open", h.connected(1))

	sendTick := time.NewTicker(time.Duration(float64(time.Second) / sendHz))
	replies := make(chan replyDTO, 16)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		defer cancel()
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			var inbound inboundMessage
			if err := json.Unmarshal(data, &inbound); err != nil {
				logger.Warn("invalid JSON message", "err", err)
				continue
			}
			var reply replyDTO
			if spectator {
				reply = replyDTO{Type: "reply", Command: inbound.Type, Error: errSpectator.Error()}
			} else {
				reply = handleCommand(h, inbound)
			}
			select {
			case replies <- reply:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		defer cancel()
		snap, _, seq := h.Snapshot(h.Sequence())
		hello, err := helloToProto(snap)
		if err != nil {
			logger.Error("hello", "err", err)
			return
		}
		if err := sendProtoMessage(conn, hello); err != nil {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case reply := <-replies:
				if err := conn.WriteJSON(reply); err != nil {
					logger.Warn("send reply", "err", err)
					return
				}
			case <-sendTick.C:
				var events []game.Event
				snap, events, seq = h.Snapshot(seq)
				state, err := stateToProto(snap, events)
				if err != nil {
					logger.Error("state", "err", err)
					continue
				}
				if err := sendProtoMessage(conn, state); err != nil {
					logger.Warn("send error", "err", err)
					return
				}
			}
		}
	}()

	<-ctx.Done()
	sendTick.Stop()
	conn.Close()
	logger.Info("disconnected", "open", h.connected(-1))
}

// handleCommand applies one player command under the host lock.
func handleCommand(h *Host, in inboundMessage) replyDTO {
	reply := replyDTO{Type: "reply", Command: in.Type}
	err := applyCommand(h, in, &reply)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	reply.OK = true
	return reply
}

func applyCommand(h *Host, in inboundMessage, reply *replyDTO) error {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	arena := h.arena

	switch in.Type {
	case "move":
		var p moveDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return fmt.Errorf("invalid move payload: %w", err)
		}
		return arena.MovePlayer(game.Vec3{X: p.X, Z: p.Z})
	case "look":
		var p lookDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return fmt.Errorf("invalid look payload: %w", err)
		}
		return arena.LookPlayer(game.Vec3{X: p.X, Y: p.Y, Z: p.Z})
	case "fire":
		shot, err := arena.PlayerFire()
		if err != nil {
			return err
		}
		reply.Fired = shot != nil
		return nil
	case "replenish":
		var p replenishDTO
		if err := json.Unmarshal(in.Payload, &p); err != nil {
			return fmt.Errorf("invalid replenish payload: %w", err)
		}
		added, err := arena.ReplenishPlayer(p.Amount)
		reply.Added = added
		return err
	default:
		return fmt.Errorf("unknown command %q", in.Type)
	}
}
