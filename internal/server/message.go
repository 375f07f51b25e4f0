package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/strategy"
)

// Message is the envelope of every WebSocket frame
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server

// SeatData describes one seat of a new game. Bot is empty for a user seat.
type SeatData struct {
	Name     string `json:"name"`
	Bankroll int    `json:"bankroll,omitempty"`
	Bot      string `json:"bot,omitempty"`
}

// NewGameData starts a game. Zero fields fall back to the server's table.
type NewGameData struct {
	Seats []SeatData `json:"seats,omitempty"`
	Decks int        `json:"decks,omitempty"`
	Mode  string     `json:"mode,omitempty"`
}

type BetData struct {
	Amount int `json:"amount"`
}

type ActionData struct {
	Action strategy.Action `json:"action"`
}

// Server → Client

type SessionData struct {
	SessionID string `json:"sessionId"`
}

type GameStartedData struct {
	Decks int           `json:"decks"`
	Mode  string        `json:"mode"`
	Table game.Snapshot `json:"table"`
}

type NotificationData = controller.Notification

// AdviceData is a strategy recommendation with the chart cell it came from
type AdviceData struct {
	Action strategy.Action `json:"action"`
	Table  string          `json:"table"`
	Row    int             `json:"row"`
	Column int             `json:"column"`
}

type TableStateData struct {
	Phase       controller.Phase `json:"phase"`
	Round       int              `json:"round"`
	Current     int              `json:"current"`
	HoleVisible bool             `json:"holeVisible"`
	Table       game.Snapshot    `json:"table"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AdviceFrom converts advisor output for the wire
func AdviceFrom(a strategy.Advice) AdviceData {
	return AdviceData{
		Action: a.Action,
		Table:  a.Kind.String(),
		Row:    a.Row,
		Column: a.Column,
	}
}
