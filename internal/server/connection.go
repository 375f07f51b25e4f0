package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192

	sendBuffer = 256
)

var ErrConnectionClosed = errors.New("connection closed")

// Session is one WebSocket client playing its own table
type Session struct {
	id     string
	conn   *websocket.Conn
	send   chan *Message
	ctrl   *controller.Controller
	server *Server
	seed   int64
	logger *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func newSession(id string, conn *websocket.Conn, s *Server, seed int64) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	sess := &Session{
		id:     id,
		conn:   conn,
		send:   make(chan *Message, sendBuffer),
		server: s,
		seed:   seed,
		logger: s.logger.WithPrefix("session").With("id", id),
		ctx:    ctx,
		cancel: cancel,
	}

	opts := []controller.Option{
		controller.WithClock(s.clock),
		controller.WithLogger(s.logger),
		controller.WithPacing(s.pacing),
		controller.WithListener(sess),
		controller.WithEngineOptions(
			game.WithRNG(randutil.New(seed)),
			game.WithSplitBlackjack(s.table.SplitBlackjack),
		),
	}
	if s.listenerFactory != nil {
		if l := s.listenerFactory(id); l != nil {
			opts = append(opts, controller.WithListener(l))
		}
	}
	sess.ctrl = controller.New(opts...)
	return sess
}

// ID returns the session identifier
func (s *Session) ID() string { return s.id }

// Start begins handling the connection
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// Close stops the session. Pending table steps are cancelled by the server
// once the session is unregistered.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		err = s.conn.Close()
	})
	return err
}

// Done is closed when the session ends
func (s *Session) Done() <-chan struct{} {
	return s.ctx.Done()
}

// SendMessage queues a message for the client without blocking. A client
// that cannot keep up is disconnected.
func (s *Session) SendMessage(msg *Message) error {
	select {
	case <-s.ctx.Done():
		return ErrConnectionClosed
	default:
	}

	select {
	case s.send <- msg:
		return nil
	default:
		s.logger.Warn("Send buffer full, closing session")
		s.cancel()
		return ErrConnectionClosed
	}
}

// Notify implements controller.Listener
func (s *Session) Notify(n controller.Notification) {
	if n.Dealer != nil && !n.HoleVisible {
		concealed := n.Dealer.Concealed()
		n.Dealer = &concealed
	}
	msg, err := NewMessage(MessageTypeNotification, NotificationData(n))
	if err != nil {
		s.logger.Error("Failed to encode notification", "kind", n.Kind, "error", err)
		return
	}
	_ = s.SendMessage(msg)
}

func (s *Session) readPump() {
	defer func() { _ = s.Close() }()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		s.handleMessage(&msg)
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case msg := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(msg); err != nil {
				s.logger.Error("Failed to write message", "error", err)
				s.cancel()
				return
			}

		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}

		case <-s.ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (s *Session) handleMessage(msg *Message) {
	s.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	var err error
	switch msg.Type {
	case MessageTypeNewGame:
		var data NewGameData
		if err = decode(msg, &data); err == nil {
			err = s.handleNewGame(msg.RequestID, data)
		}

	case MessageTypeStartRound:
		err = s.ctrl.StartBetting()

	case MessageTypeBet:
		var data BetData
		if err = decode(msg, &data); err == nil {
			err = s.ctrl.Bet(data.Amount)
		}

	case MessageTypeAction:
		var data ActionData
		if err = decode(msg, &data); err == nil {
			err = s.ctrl.Act(data.Action)
		}

	case MessageTypeHint:
		err = s.handleHint(msg.RequestID)

	case MessageTypeState:
		err = s.handleState(msg.RequestID)

	default:
		s.sendError(msg.RequestID, "unknown_message_type", "Unknown message type: "+msg.Type.String())
		return
	}

	if err != nil {
		s.sendError(msg.RequestID, errorCode(err), err.Error())
	}
}

var errBadMessage = errors.New("invalid message")

func decode(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: %s needs data", errBadMessage, msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", errBadMessage, msg.Type, err)
	}
	return nil
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, errBadMessage):
		return "invalid_message"
	case errors.Is(err, controller.ErrNoGame):
		return "no_game"
	case errors.Is(err, controller.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, controller.ErrNotUserTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrInvalidAction):
		return "invalid_action"
	default:
		return "request_failed"
	}
}

func (s *Session) handleNewGame(requestID string, data NewGameData) error {
	table := s.server.table
	table.Seats = slices.Clone(table.Seats)
	if len(data.Seats) > 0 {
		table.Seats = make([]config.SeatConfig, len(data.Seats))
		for i, seat := range data.Seats {
			table.Seats[i] = config.SeatConfig{Name: seat.Name, Bankroll: seat.Bankroll, Bot: seat.Bot}
		}
	}
	if data.Decks != 0 {
		table.Decks = data.Decks
	}
	if data.Mode != "" {
		table.Mode = data.Mode
	}
	if err := table.Normalize(); err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}

	seats, err := table.ControllerSeats(s.seed, s.logger)
	if err != nil {
		return fmt.Errorf("%w: %v", errBadMessage, err)
	}
	mode := table.ShuffleMode()
	if err := s.ctrl.NewGame(seats, table.Decks, mode); err != nil {
		return err
	}
	s.logger.Info("New game", "seats", len(seats), "decks", table.Decks, "mode", mode)

	snap, _ := s.ctrl.Snapshot()
	return s.reply(requestID, MessageTypeGameStarted, GameStartedData{
		Decks: table.Decks,
		Mode:  mode.String(),
		Table: snap,
	})
}

func (s *Session) handleHint(requestID string) error {
	advice, err := s.ctrl.Hint()
	if err != nil {
		return err
	}
	return s.reply(requestID, MessageTypeHintResult, AdviceFrom(advice))
}

func (s *Session) handleState(requestID string) error {
	snap, ok := s.ctrl.Snapshot()
	if !ok {
		return controller.ErrNoGame
	}
	hole := s.ctrl.HoleVisible()
	if !hole {
		snap.Dealer = snap.Dealer.Concealed()
	}
	return s.reply(requestID, MessageTypeTableState, TableStateData{
		Phase:       s.ctrl.Phase(),
		Round:       s.ctrl.Round(),
		Current:     s.ctrl.Current(),
		HoleVisible: hole,
		Table:       snap,
	})
}

func (s *Session) reply(requestID string, t MessageType, data any) error {
	msg, err := NewMessage(t, data)
	if err != nil {
		return err
	}
	msg.RequestID = requestID
	return s.SendMessage(msg)
}

func (s *Session) sendError(requestID, code, message string) {
	_ = s.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}
