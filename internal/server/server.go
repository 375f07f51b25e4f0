// Package server hosts blackjack tables over WebSocket. Every connection gets
// its own session and table; the HTTP side serves health, session listing and
// a stateless strategy advisor.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lox/blackjack/internal/config"
	"github.com/lox/blackjack/internal/controller"
	"github.com/lox/blackjack/internal/deck"
	"github.com/lox/blackjack/internal/game"
	"github.com/lox/blackjack/internal/randutil"
	"github.com/lox/blackjack/internal/strategy"
)

// Server is the HTTP and WebSocket front end
type Server struct {
	addr            string
	router          *gin.Engine
	upgrader        websocket.Upgrader
	httpServer      *http.Server
	logger          *log.Logger
	clock           quartz.Clock
	pacing          controller.Pacing
	table           config.TableConfig
	seed            int64
	listenerFactory func(sessionID string) controller.Listener

	mu       sync.RWMutex
	sessions map[string]*Session
	opened   atomic.Int64
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithClock sets the clock session tables are paced on
func WithClock(clock quartz.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithPacing sets the delays between automatic steps
func WithPacing(p controller.Pacing) Option {
	return func(s *Server) { s.pacing = p }
}

// WithTable sets the table a new_game message without seats starts
func WithTable(t config.TableConfig) Option {
	return func(s *Server) { s.table = t }
}

// WithSeed makes session shoes reproducible. Session n draws from the n-th
// stream derived from seed.
func WithSeed(seed int64) Option {
	return func(s *Server) { s.seed = seed }
}

// WithListenerFactory attaches an extra listener to every session's table,
// such as an event sink.
func WithListenerFactory(f func(sessionID string) controller.Listener) Option {
	return func(s *Server) { s.listenerFactory = f }
}

// NewServer creates a server listening on addr once started
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		pacing:   controller.DefaultPacing,
		table:    config.Default().Table,
		seed:     randutil.Seed(nil),
		sessions: make(map[string]*Session),
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.clock == nil {
		s.clock = quartz.NewReal()
	}
	s.logger = s.logger.WithPrefix("server")
	s.router = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", s.handleHealth)
	r.GET("/ws", s.handleWebSocket)

	api := r.Group("/api")
	api.GET("/sessions", s.handleSessions)
	api.POST("/advise", s.handleAdvise)
	api.GET("/chart", s.handleChart)
	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting server", "addr", s.addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.Stop()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Stop closes every session
func (s *Server) Stop() {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		_ = sess.Close()
	}
}

// SessionCount returns the number of open sessions
func (s *Server) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.id] = sess
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("Client connected", "session", sess.id, "total", total)
}

func (s *Server) unregister(sess *Session) {
	sess.ctrl.Stop()

	s.mu.Lock()
	delete(s.sessions, sess.id)
	total := len(s.sessions)
	s.mu.Unlock()
	s.logger.Info("Client disconnected", "session", sess.id, "rounds", sess.ctrl.Round(), "total", total)
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	n := int(s.opened.Add(1)) - 1
	sess := newSession(uuid.NewString(), conn, s, randutil.Derive(s.seed, n))
	s.register(sess)

	hello, _ := NewMessage(MessageTypeSession, SessionData{SessionID: sess.id})
	_ = sess.SendMessage(hello)
	sess.Start()

	go func() {
		<-sess.Done()
		s.unregister(sess)
	}()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// SessionInfo summarises one open session
type SessionInfo struct {
	ID     string           `json:"id"`
	Phase  controller.Phase `json:"phase"`
	Rounds int              `json:"rounds"`
}

func (s *Server) handleSessions(c *gin.Context) {
	s.mu.RLock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for id, sess := range s.sessions {
		infos = append(infos, SessionInfo{ID: id, Phase: sess.ctrl.Phase(), Rounds: sess.ctrl.Round()})
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	c.JSON(http.StatusOK, gin.H{"sessions": infos})
}

// AdviseRequest asks for the basic strategy move of a hand
type AdviseRequest struct {
	Cards  []deck.Card `json:"cards" binding:"required,min=2"`
	Upcard deck.Card   `json:"upcard"`
	// NoSplit asks for the move when the pair cannot be split
	NoSplit bool `json:"noSplit"`
}

// adviceHand scores loose cards so the advisor can read them
func adviceHand(cards []deck.Card) game.HandSnapshot {
	total, soft := game.Score(cards)
	return game.HandSnapshot{CardList: cards, Points: total, Soft: soft}
}

func (s *Server) handleAdvise(c *gin.Context) {
	var req AdviseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorData{Code: "invalid_request", Message: err.Error()})
		return
	}

	hand := adviceHand(req.Cards)
	var (
		advice strategy.Advice
		err    error
	)
	if req.NoSplit {
		advice, err = strategy.AdviseWithoutSplit(hand, req.Upcard)
	} else {
		advice, err = strategy.Advise(hand, req.Upcard)
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorData{Code: "outside_table", Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, AdviceFrom(advice))
}

// ChartData is the strategy chart as chart letters, rows in table order
type ChartData struct {
	Hard [][]string `json:"hard"`
	Soft [][]string `json:"soft"`
	Pair [][]string `json:"pair"`
}

func (s *Server) handleChart(c *gin.Context) {
	c.JSON(http.StatusOK, ChartData{
		Hard: letters(strategy.HardTable[:]),
		Soft: letters(strategy.SoftTable[:]),
		Pair: letters(strategy.PairTable[:]),
	})
}

func letters(rows [][10]strategy.Action) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, a := range row {
			out[i][j] = a.Short()
		}
	}
	return out
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
