package server

import "encoding/json"

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type moveDTO struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type lookDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type replenishDTO struct {
	Amount int `json:"amount"`
}

// replyDTO answers a command on the text channel.
type replyDTO struct {
	Type    string `json:"type"`
	Command string `json:"command"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
	Fired   bool   `json:"fired,omitempty"`
	Added   int    `json:"added,omitempty"`
}

type healthDTO struct {
	Status      string  `json:"status"`
	Tick        uint64  `json:"tick"`
	Now         float64 `json:"now"`
	Agents      int     `json:"agents"`
	Connections int     `json:"connections"`
}
