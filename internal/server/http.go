package server

import (
	"encoding/json"
	"net/http"

	"SentryArena/internal/scenario"
)

func NewMux(h *Host, sendHz float64) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, sendHz, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		snap, _, _ := h.Snapshot(h.Sequence())
		writeJSON(w, healthDTO{
			Status:      "ok",
			Tick:        snap.Tick,
			Now:         snap.Now,
			Agents:      len(snap.Agents),
			Connections: h.Connections(),
		})
	})
	mux.HandleFunc("/schema", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, scenario.Schema())
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}
