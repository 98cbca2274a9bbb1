package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/domain/intent"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/id"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/utils"
	"github.com/GriffinCanCode/SpatialOS/backend/internal/shared/vecmath"
)

// Connection tuning
const (
	writeWait   = 5 * time.Second
	pongWait    = 60 * time.Second
	pingPeriod  = (pongWait * 9) / 10
	callTimeout = 2 * time.Second
	outboxSize  = 16
	FrameBuffer = 4
)

// Inbound message types
const (
	MsgPointerDown = "pointer_down"
	MsgPointerMove = "pointer_move"
	MsgPointerUp   = "pointer_up"
	MsgCommand     = "command"
	MsgIntent      = "intent"
	MsgPing        = "ping"
)

// Outbound message types
const (
	MsgFrame    = "frame"
	MsgFeedback = "feedback"
	MsgError    = "error"
	MsgPong     = "pong"
	MsgSystem   = "system"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 16384,
	CheckOrigin: func(r *http.Request) bool {
		return true // renderers connect from arbitrary dev origins
	},
}

// Handler manages renderer stream connections
type Handler struct {
	runtime *desktop.Runtime
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	logger  *logging.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(runtime *desktop.Runtime, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		runtime: runtime,
		logger:  logger.Component("ws"),
	}
}

// WithMetrics enables connection and message metrics
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// WithTracer traces every inbound message
func (h *Handler) WithTracer(tracer *tracing.Tracer) *Handler {
	h.tracer = tracer
	return h
}

// envelope is every outbound message. Exactly one payload field is set
// besides Type.
type envelope struct {
	Type         string               `json:"type"`
	Message      string               `json:"message,omitempty"`
	ConnectionID string               `json:"connection_id,omitempty"`
	Frame        *desktop.RenderFrame `json:"frame,omitempty"`
	Result       *intent.Result       `json:"result,omitempty"`
	Intent       *intent.Intent       `json:"intent,omitempty"`
	WindowID     id.WindowID          `json:"window_id,omitempty"`
	Target       *vecmath.Vec2        `json:"target,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

// session is one renderer connection. Only the writer goroutine touches
// the socket for writing.
type session struct {
	id     string
	conn   *websocket.Conn
	outbox chan envelope
	done   chan struct{}
	once   sync.Once
}

func (s *session) close() {
	s.once.Do(func() { close(s.done) })
}

// send queues a reply, giving up once the session is closing
func (s *session) send(env envelope) {
	env.Timestamp = time.Now().UnixMilli()
	select {
	case s.outbox <- env:
	case <-s.done:
	}
}

// HandleConnection upgrades the request and streams frames until the
// renderer disconnects
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		outbox: make(chan envelope, outboxSize),
		done:   make(chan struct{}),
	}
	logger := h.logger.With(zap.String("connection_id", s.id))
	logger.Info("Renderer connected", zap.String("remote", c.ClientIP()))

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	frames, unsubscribe := h.runtime.Subscribe(FrameBuffer)
	defer unsubscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.writeLoop(s, frames, logger)
	}()

	s.send(envelope{
		Type:         MsgSystem,
		Message:      "Connected to SpatialOS desktop",
		ConnectionID: s.id,
	})

	h.readLoop(c.Request.Context(), s, logger)
	s.close()
	wg.Wait()
	logger.Info("Renderer disconnected")
}

func (h *Handler) readLoop(ctx context.Context, s *session, logger *logging.Logger) {
	s.conn.SetReadLimit(utils.MaxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			s.send(errorEnvelope("malformed message"))
			continue
		}
		h.recordMessage("in", msg.Type)
		h.handle(ctx, s, msg)

		select {
		case <-s.done:
			return
		default:
		}
	}
}

// handle serves one inbound message inside its own span
func (h *Handler) handle(ctx context.Context, s *session, msg types.WSMessage) {
	if h.tracer != nil {
		var span *tracing.Span
		span, ctx = h.tracer.StartSpan(ctx, "ws."+msg.Type)
		span.SetTag("connection_id", s.id)
		defer func() {
			span.Finish()
			h.tracer.Submit(span)
		}()
	}

	callCtx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	switch msg.Type {
	case MsgPing:
		s.send(envelope{Type: MsgPong})

	case MsgCommand:
		if err := utils.ValidateCommand(msg.Command); err != nil {
			s.send(errorEnvelope(err.Error()))
			return
		}
		res, err := h.runtime.Execute(callCtx, msg.Command)
		if err != nil {
			s.send(errorEnvelope(err.Error()))
			return
		}
		s.send(envelope{Type: MsgFeedback, Intent: &res.Intent, Result: &res.Result})

	case MsgIntent:
		in, err := intent.Decode(msg.Intent)
		if err != nil {
			s.send(errorEnvelope(err.Error()))
			return
		}
		res, err := h.runtime.DispatchIntent(callCtx, in)
		if err != nil {
			s.send(errorEnvelope(err.Error()))
			return
		}
		s.send(envelope{Type: MsgFeedback, Intent: &in, Result: &res})

	case MsgPointerDown, MsgPointerMove, MsgPointerUp:
		h.handlePointer(callCtx, s, msg)

	default:
		s.send(errorEnvelope("unknown message type"))
	}
}

// handlePointer forwards drag input. Only pointer_up answers; down and
// move show up in the next frame.
func (h *Handler) handlePointer(ctx context.Context, s *session, msg types.WSMessage) {
	if err := utils.ValidateID(msg.WindowID, "window_id", true); err != nil {
		s.send(errorEnvelope(err.Error()))
		return
	}
	wid := id.WindowID(msg.WindowID)

	var err error
	switch msg.Type {
	case MsgPointerDown:
		err = h.runtime.PointerDown(ctx, wid, msg.X, msg.Y)
	case MsgPointerMove:
		err = h.runtime.PointerMove(ctx, wid, msg.X, msg.Y)
	case MsgPointerUp:
		var target vecmath.Vec2
		if target, err = h.runtime.PointerUp(ctx, wid); err == nil {
			s.send(envelope{Type: MsgFeedback, WindowID: wid, Target: &target})
		}
	}
	if err != nil {
		s.send(errorEnvelope(err.Error()))
	}
}

func (h *Handler) writeLoop(s *session, frames <-chan desktop.RenderFrame, logger *logging.Logger) {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	// A failed write ends the session so the reader unblocks too.
	defer func() {
		s.close()
		_ = s.conn.Close()
	}()

	for {
		var env envelope
		select {
		case <-s.done:
			return
		case frame, ok := <-frames:
			if !ok {
				_ = s.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "desktop stopped"),
					time.Now().Add(writeWait))
				return
			}
			env = envelope{Type: MsgFrame, Frame: &frame, Timestamp: frame.Time.UnixMilli()}
		case env = <-s.outbox:
		case <-ping.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}

		data, err := sonic.Marshal(env)
		if err != nil {
			logger.Error("Failed to encode message", zap.String("type", env.Type), zap.Error(err))
			continue
		}
		_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			logger.Debug("WebSocket write failed", zap.Error(err))
			return
		}
		h.recordMessage("out", env.Type)
	}
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}

func errorEnvelope(msg string) envelope {
	return envelope{Type: MsgError, Message: msg}
}
