// websocket.go - Streaming optimization over WebSocket
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/pocket-planner/backend/internal/models"
	"github.com/pocket-planner/backend/internal/optimizer"
)

// WebSocket message types for the optimize protocol
const (
	// Client -> Server messages
	MsgTypeOptimizeStart = "optimize:start"
	MsgTypePing          = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeProgress  = "progress"
	MsgTypeComplete  = "complete"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// WSMessage is the envelope for all WebSocket traffic.
type WSMessage struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WSProgressPayload is sent after each committed optimizer move.
type WSProgressPayload struct {
	Iteration int     `json:"iteration"`
	Score     float64 `json:"score"`
	Move      string  `json:"move"`
}

// WSErrorPayload reports a failed run.
type WSErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler streams optimization progress over a WebSocket so clients
// can animate moves as they are committed instead of waiting for the final
// layout.
type WebSocketHandler struct {
	handler  *Handler
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates a new streaming optimize handler
func NewWebSocketHandler(h *Handler) *WebSocketHandler {
	return &WebSocketHandler{
		handler: h,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  16 * 1024,
			WriteBufferSize: 16 * 1024,
		},
	}
}

// HandleOptimizeWS upgrades the connection and serves optimize requests until
// the client disconnects. Runs are sequential per connection.
func (wsh *WebSocketHandler) HandleOptimizeWS(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	wsh.sendMessage(ws, WSMessage{Type: MsgTypeConnected, Timestamp: time.Now().UnixMilli()})

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("[WebSocket] Connection error: %v\n", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			wsh.sendMessage(ws, WSMessage{Type: MsgTypePong, Timestamp: time.Now().UnixMilli()})
		case MsgTypeOptimizeStart:
			wsh.handleOptimizeStart(ws, msg)
		default:
			wsh.sendError(ws, fmt.Sprintf("unknown message type: %s", msg.Type), "BAD_REQUEST")
		}
	}
	return nil
}

func (wsh *WebSocketHandler) handleOptimizeStart(ws *websocket.Conn, msg WSMessage) {
	var req models.OptimizeRequest
	if err := json.Unmarshal(msg.Payload, &req); err != nil {
		wsh.sendError(ws, "invalid optimize payload", "BAD_REQUEST")
		return
	}

	h := wsh.handler
	objects, dims, sess, err := h.resolveOptimizeInput(&req)
	if err != nil {
		wsh.sendError(ws, err.Error(), "BAD_REQUEST")
		return
	}

	maxIterations := req.MaxIterations
	if maxIterations <= 0 || maxIterations > h.maxIterations {
		maxIterations = h.maxIterations
	}

	rules := h.currentRules()
	opt := optimizer.New(rules)

	started := time.Now()
	result, err := opt.Optimize(objects, dims.WidthEstimate, dims.HeightEstimate, req.LockedIDs, maxIterations,
		func(p optimizer.Progress) {
			wsh.sendPayload(ws, MsgTypeProgress, WSProgressPayload{
				Iteration: p.Iteration,
				Score:     p.Score,
				Move:      p.Move,
			})
		})
	if err != nil {
		wsh.sendError(ws, err.Error(), "BAD_REQUEST")
		return
	}

	if sess != nil {
		h.sessions.RecordOptimization(sess.ID, result.Layout, result.FinalScore, result.Iterations)
	}
	h.recordRun(sess, started, result, len(objects))

	wsh.sendPayload(ws, MsgTypeComplete, models.OptimizeResponse{
		NewLayout:   result.Layout,
		Explanation: result.Explanation,
		LayoutScore: result.FinalScore.TotalScore,
		Iterations:  result.Iterations,
		Termination: result.Termination,
		Improvement: result.FinalScore.TotalScore - result.InitialScore.TotalScore,
	})
}

func (wsh *WebSocketHandler) sendMessage(ws *websocket.Conn, msg WSMessage) {
	if err := ws.WriteJSON(msg); err != nil {
		fmt.Printf("[WebSocket] write error: %v\n", err)
	}
}

func (wsh *WebSocketHandler) sendPayload(ws *websocket.Conn, msgType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		fmt.Printf("[WebSocket] marshal error: %v\n", err)
		return
	}
	wsh.sendMessage(ws, WSMessage{
		Type:      msgType,
		Payload:   data,
		Timestamp: time.Now().UnixMilli(),
	})
}

func (wsh *WebSocketHandler) sendError(ws *websocket.Conn, message, code string) {
	wsh.sendPayload(ws, MsgTypeError, WSErrorPayload{Message: message, Code: code})
}
