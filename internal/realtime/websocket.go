package realtime

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/chatbot"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/domain"
	"github.com/dinobrefo/EduNova-MINIPROJECT/internal/identity"
)

const (
	readLimit    = 64 << 10
	writeTimeout = 5 * time.Second

	channelWebSocket = "chat_ws"
)

// Frame types exchanged on /ws/chat.
const (
	FrameMessage = "message"
	FramePing    = "ping"
	FrameClear   = "clear"
	FrameReply   = "reply"
	FramePong    = "pong"
	FrameCleared = "cleared"
	FrameError   = "error"
)

// unknownFrameLabel is recorded for inbound frame types the handler does not know.
const unknownFrameLabel = "unknown"

// frameLabel bounds metric labels to the known frame types.
func frameLabel(frameType string) string {
	switch frameType {
	case FrameMessage, FramePing, FrameClear, FrameReply, FramePong, FrameCleared, FrameError:
		return frameType
	default:
		return unknownFrameLabel
	}
}

// Limiter bounds how often an owner may send chat messages.
type Limiter interface {
	Allow(key string) bool
}

// FrameRecorder receives connection and frame counts for metrics.
type FrameRecorder interface {
	RecordConnect()
	RecordDisconnect()
	RecordFrame(frameType, direction string)
}

type noopRecorder struct{}

func (noopRecorder) RecordConnect()             {}
func (noopRecorder) RecordDisconnect()          {}
func (noopRecorder) RecordFrame(string, string) {}

// InboundFrame is a client frame.
type InboundFrame struct {
	Type    string               `json:"type"`
	Content string               `json:"content,omitempty"`
	Context *domain.ContextPatch `json:"context,omitempty"`
}

// OutboundFrame is a server frame.
type OutboundFrame struct {
	Type  string         `json:"type"`
	Reply *chatbot.Reply `json:"reply,omitempty"`
	Error string         `json:"error,omitempty"`
}

// Handler upgrades /ws/chat and runs one chat loop per connection.
type Handler struct {
	chat           *chatbot.Service
	conns          *ConnectionManager
	limiter        Limiter
	rec            FrameRecorder
	originPatterns []string
	isDev          bool
}

// NewHandler creates a realtime chat handler. A nil limiter or recorder is allowed.
func NewHandler(chat *chatbot.Service, conns *ConnectionManager, limiter Limiter, rec FrameRecorder, allowedOrigins []string, isDev bool) *Handler {
	if rec == nil {
		rec = noopRecorder{}
	}
	return &Handler{
		chat:           chat,
		conns:          conns,
		limiter:        limiter,
		rec:            rec,
		originPatterns: originPatterns(allowedOrigins),
		isDev:          isDev,
	}
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ownerID := identity.UserIDFromContext(r.Context())
	sessionID := identity.SessionIDFromContext(r.Context())
	if ownerID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	opts := &websocket.AcceptOptions{OriginPatterns: h.originPatterns}
	if h.isDev {
		opts.InsecureSkipVerify = true
	}
	ws, err := websocket.Accept(w, r, opts)
	if err != nil {
		slog.Warn("Failed to accept chat socket", "owner_id", ownerID, "error", err)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close chat socket", "owner_id", ownerID, "error", closeErr)
		}
	}()
	ws.SetReadLimit(readLimit)

	h.conns.Register(ownerID, sessionID, ws)
	defer h.conns.Unregister(ownerID, sessionID, ws)
	h.rec.RecordConnect()
	defer h.rec.RecordDisconnect()

	h.readLoop(r.Context(), ws, ownerID, sessionID, middleware.GetReqID(r.Context()))
}

func (h *Handler) readLoop(ctx context.Context, ws *websocket.Conn, ownerID, sessionID, requestID string) {
	for {
		var frame InboundFrame
		if err := wsjson.Read(ctx, ws, &frame); err != nil {
			if websocket.CloseStatus(err) != -1 || errors.Is(err, context.Canceled) {
				slog.Debug("Chat socket closed", "owner_id", ownerID)
			} else {
				slog.Warn("Chat socket read error", "owner_id", ownerID, "error", err)
				h.write(ctx, ws, OutboundFrame{Type: FrameError, Error: "invalid frame"})
			}
			return
		}
		h.rec.RecordFrame(frameLabel(frame.Type), "inbound")

		out := h.dispatch(ctx, frame, ownerID, sessionID, requestID)
		if !h.write(ctx, ws, out) {
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, frame InboundFrame, ownerID, sessionID, requestID string) OutboundFrame {
	switch frame.Type {
	case FramePing:
		return OutboundFrame{Type: FramePong}
	case FrameClear:
		h.chat.ClearHistory(ownerID)
		return OutboundFrame{Type: FrameCleared}
	case FrameMessage:
		if h.limiter != nil && !h.limiter.Allow(ownerID) {
			return OutboundFrame{Type: FrameError, Error: "rate limit exceeded"}
		}
		reply := h.chat.SendMessage(ctx, chatbot.MessageRequest{
			OwnerID:   ownerID,
			SessionID: sessionID,
			Message:   frame.Content,
			Context:   frame.Context,
			Channel:   channelWebSocket,
			RequestID: requestID,
		})
		return OutboundFrame{Type: FrameReply, Reply: &reply}
	default:
		return OutboundFrame{Type: FrameError, Error: "unknown frame type"}
	}
}

func (h *Handler) write(ctx context.Context, ws *websocket.Conn, frame OutboundFrame) bool {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, ws, frame); err != nil {
		slog.Debug("Chat socket write failed", "error", err)
		return false
	}
	h.rec.RecordFrame(frame.Type, "outbound")
	return true
}

// originPatterns converts allowed origins into host patterns for Accept.
func originPatterns(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if i := strings.Index(o, "://"); i >= 0 {
			o = o[i+3:]
		}
		out = append(out, o)
	}
	return out
}
