package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ag-ui/agentstream/pkg/core"
	"github.com/ag-ui/agentstream/pkg/core/events"
	"github.com/ag-ui/agentstream/pkg/encoding"
)

// RunRequest is the body of POST /api/agent.
type RunRequest struct {
	Messages           []ChatMessage `json:"messages"`
	ThreadID           string        `json:"thread_id"`
	AvailableUIActions []string      `json:"available_ui_actions,omitempty"`
}

// LatestUserInput returns the content of the most recent user message.
func (r *RunRequest) LatestUserInput() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Content
		}
	}
	return ""
}

// AllowsUIAction reports whether the client advertised the action. An
// empty advertisement means the client accepts everything.
func (r *RunRequest) AllowsUIAction(name string) bool {
	if len(r.AvailableUIActions) == 0 {
		return true
	}
	for _, a := range r.AvailableUIActions {
		if a == name {
			return true
		}
	}
	return false
}

// Config holds server settings.
type Config struct {
	// Address is the listen address, e.g. ":8000".
	Address string
	// KeepAliveInterval paces SSE comment frames on idle streams.
	KeepAliveInterval time.Duration
	// StreamDelay paces text deltas from the keyword routes.
	StreamDelay time.Duration
	// EmitBuffer sizes each run's event channel.
	EmitBuffer int
	Logger     *logrus.Logger
	// Streamer handles inputs no keyword route claims. Defaults to a
	// ScriptedStreamer when nil.
	Streamer TokenStreamer
}

// Server hosts the agent run endpoint over SSE and WebSocket.
type Server struct {
	cfg      Config
	log      *logrus.Entry
	router   *Router
	streamer TokenStreamer
	engine   *gin.Engine
	upgrader websocket.Upgrader
}

// NewServer builds a server; it does not start listening.
func NewServer(cfg Config) *Server {
	if cfg.Address == "" {
		cfg.Address = ":8000"
	}
	if cfg.KeepAliveInterval <= 0 {
		cfg.KeepAliveInterval = 15 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	log := cfg.Logger.WithField("component", "server")
	s := &Server{
		cfg:      cfg,
		log:      log,
		router:   NewRouter(cfg.Logger.WithField("component", "router"), cfg.StreamDelay),
		streamer: cfg.Streamer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	if s.streamer == nil {
		s.streamer = &ScriptedStreamer{Delay: cfg.StreamDelay}
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/health", s.handleHealth)
	engine.POST("/api/agent", s.handleRun)
	engine.GET("/ws", s.handleWS)
	s.engine = engine
	return s
}

// Handler exposes the HTTP mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens and serves until the listener fails.
func (s *Server) Run() error {
	s.log.WithField("address", s.cfg.Address).Info("listening")
	return s.engine.Run(s.cfg.Address)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleRun drives one agent run over SSE. The producer goroutine owns
// the event sequence; this handler only moves frames to the wire and
// keeps the connection warm with comment frames.
func (s *Server) handleRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sse := encoding.NewWriter(c.Writer)
	if sse == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	em := NewEmitter(s.cfg.EmitBuffer)
	defer em.Abort()

	g, runCtx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		s.produce(runCtx, em, &req)
		return nil
	})

	keepalive := time.NewTicker(s.cfg.KeepAliveInterval)
	defer keepalive.Stop()

drain:
	for {
		select {
		case ev, ok := <-em.Events():
			if !ok {
				break drain
			}
			if err := sse.WriteEvent(ev); err != nil {
				s.log.WithError(err).Debug("client connection lost")
				break drain
			}
		case <-keepalive.C:
			if err := sse.WriteComment("keep-alive"); err != nil {
				break drain
			}
		case <-runCtx.Done():
			break drain
		}
	}

	em.Abort()
	_ = g.Wait()
}

// handleWS mirrors the run protocol over a WebSocket: the client sends
// one RunRequest as a text frame and receives each event as a JSON text
// frame, ending with DONE.
func (s *Server) handleWS(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	for {
		var req RunRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Debug("websocket read ended")
			}
			return
		}

		em := NewEmitter(s.cfg.EmitBuffer)
		go s.produce(c.Request.Context(), em, &req)

		for ev := range em.Events() {
			data, err := ev.ToJSON()
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				em.Abort()
				return
			}
		}
	}
}

// produce emits the full event sequence for one run and closes the
// emitter. Every run that starts is terminated by RUN_FINISHED or
// RUN_ERROR and then DONE; an empty input short-circuits to
// RUN_ERROR + DONE without RUN_STARTED.
func (s *Server) produce(ctx context.Context, em *Emitter, req *RunRequest) {
	defer em.Close()

	input := strings.TrimSpace(req.LatestUserInput())
	if input == "" {
		em.Emit(events.NewRunErrorEvent("No user message provided", events.WithErrorCode("EMPTY_INPUT")))
		em.Emit(events.NewDoneEvent())
		return
	}

	threadID := req.ThreadID
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	runID := events.GenerateRunID()
	log := s.log.WithFields(logrus.Fields{"run_id": runID, "thread_id": threadID})

	if !em.Emit(events.NewRunStartedEvent(threadID, runID)) {
		return
	}

	matched, err := s.router.Dispatch(ctx, em, req, input)
	if err == nil && !matched {
		err = s.streamFallback(ctx, em, req)
		if err == nil {
			err = s.emitTextActions(em, req)
		}
	}

	if err != nil {
		if ctx.Err() != nil || errors.Is(err, core.ErrStreamClosed) {
			log.Debug("run abandoned by client")
			return
		}
		log.WithError(err).Error("run failed")
		em.Emit(events.NewRunErrorEvent(err.Error(), events.WithRunID(runID)))
		em.Emit(events.NewDoneEvent())
		return
	}

	log.Info("run finished")
	em.Emit(events.NewRunFinishedEvent(threadID, runID))
	em.Emit(events.NewDoneEvent())
}

// streamFallback hands the conversation to the token streamer and wraps
// its output in a single assistant message.
func (s *Server) streamFallback(ctx context.Context, em *Emitter, req *RunRequest) error {
	msgID := events.GenerateMessageID()
	if !em.Emit(events.NewTextMessageStartEvent(msgID, events.WithRole("assistant"))) {
		return core.ErrStreamClosed
	}

	err := s.streamer.StreamTokens(ctx, req.Messages, func(delta string) error {
		if delta == "" {
			return nil
		}
		if !em.Emit(events.NewTextMessageContentEvent(msgID, delta)) {
			return core.ErrStreamClosed
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !em.Emit(events.NewTextMessageEndEvent(msgID)) {
		return core.ErrStreamClosed
	}
	return nil
}

// emitTextActions recovers UI actions the model described in prose
// instead of invoking. Only the fallback path needs this; keyword routes
// emit their actions directly.
func (s *Server) emitTextActions(em *Emitter, req *RunRequest) error {
	for _, action := range ParseUIActions(em.AccumulatedText()) {
		if !req.AllowsUIAction(action.Action) {
			continue
		}
		if !em.Emit(events.NewUIActionEvent(action.Action, action.Args)) {
			return core.ErrStreamClosed
		}
	}
	return nil
}
