package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/quizrun/quizrun-backend/internal/response"
	"github.com/quizrun/quizrun-backend/internal/session"
	ws "github.com/quizrun/quizrun-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams session events to the player and accepts answer
// submissions over the same connection.
type WSHandler struct {
	manager  *session.Manager
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(manager *session.Manager, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		manager:  manager,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// SessionStream godoc
// WS /ws/v1/sessions/:id/stream
// Upgrades to WebSocket. The server pushes answer verdicts, the delayed
// advance to the next question, and the final score; the client submits
// answers over the same socket.
func (h *WSHandler) SessionStream(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	s, err := h.manager.Get(id)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("session_id", id.String()).Logger()
	wsLog.Info().Msg("Player connected")

	// The event pump owns the write side of the socket; read-loop replies
	// go through the same channel to keep writes single-goroutine.
	outbound := make(chan interface{}, 16)
	done := make(chan struct{})

	go h.pumpEvents(conn, s, outbound, done, wsLog)

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionSubmit:
			h.handleSubmit(s, &msg, outbound)
		case ws.ActionSubmitDigit:
			h.handleSubmitDigit(s, &msg, outbound)
		case ws.ActionPing:
			send(outbound, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			send(outbound, ws.ErrorResponse{Event: ws.EventError, Error: "unknown action: " + string(msg.Action)})
		}
	}

	close(done)
}

// pumpEvents forwards session events and read-loop replies to the socket
// until the session closes its stream or the connection goes away.
func (h *WSHandler) pumpEvents(conn *websocket.Conn, s *session.Session, outbound <-chan interface{}, done <-chan struct{}, wsLog zerolog.Logger) {
	events := s.Events()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				ws.WriteTyped(conn, ws.ClosedResponse{Event: ws.EventClosed})
				conn.Close()
				return
			}
			if err := ws.WriteTyped(conn, translateEvent(ev)); err != nil {
				wsLog.Debug().Err(err).Msg("Event write failed")
				return
			}
		case v := <-outbound:
			if err := ws.WriteTyped(conn, v); err != nil {
				wsLog.Debug().Err(err).Msg("Reply write failed")
				return
			}
		case <-done:
			return
		}
	}
}

func (h *WSHandler) handleSubmit(s *session.Session, msg *ws.RequestPayload, outbound chan<- interface{}) {
	if msg.Index == nil {
		send(outbound, ws.ErrorResponse{Event: ws.EventError, Error: "index is required"})
		return
	}

	if err := s.Submit(*msg.Index); err != nil {
		send(outbound, ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
	}
	// The verdict arrives through the event stream.
}

func (h *WSHandler) handleSubmitDigit(s *session.Session, msg *ws.RequestPayload, outbound chan<- interface{}) {
	if msg.Digit == nil {
		send(outbound, ws.ErrorResponse{Event: ws.EventError, Error: "digit is required"})
		return
	}

	accepted, err := s.SubmitDigit(*msg.Digit)
	if err != nil {
		send(outbound, ws.ErrorResponse{Event: ws.EventError, Error: err.Error()})
		return
	}
	if !accepted {
		send(outbound, ws.IgnoredResponse{Event: ws.EventIgnored})
	}
}

// translateEvent maps a session event onto its wire schema.
func translateEvent(ev session.Event) interface{} {
	switch ev.Type {
	case session.EventAnswered:
		correct := ev.Correct != nil && *ev.Correct
		return ws.AnsweredResponse{
			Event:         ws.EventAnswered,
			QuestionIndex: ev.QuestionIndex,
			Correct:       correct,
			Score:         ev.Score,
			Total:         ev.Total,
		}
	case session.EventAdvanced:
		return ws.AdvancedResponse{
			Event:         ws.EventAdvanced,
			QuestionIndex: ev.QuestionIndex,
			Score:         ev.Score,
			Total:         ev.Total,
		}
	case session.EventScored:
		return ws.ScoredResponse{
			Event:      ws.EventScored,
			Score:      ev.Score,
			Total:      ev.Total,
			WrongCount: ev.WrongCount,
			Record:     ev.Record,
		}
	case session.EventPracticeComplete:
		return ws.PracticeCompleteResponse{
			Event: ws.EventPracticeComplete,
			Score: ev.Score,
			Total: ev.Total,
		}
	case session.EventRestarted:
		return ws.RestartedResponse{Event: ws.EventRestarted, Total: ev.Total}
	case session.EventClosed:
		return ws.ClosedResponse{Event: ws.EventClosed}
	default:
		return ws.ErrorResponse{Event: ws.EventError, Error: "unknown event"}
	}
}

// send never blocks the read loop; a full outbound buffer drops the reply.
func send(outbound chan<- interface{}, v interface{}) {
	select {
	case outbound <- v:
	default:
	}
}
