package server

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/vango-dev/reconcile/internal/errors"
	"github.com/vango-dev/reconcile/pkg/host"
	"github.com/vango-dev/reconcile/pkg/protocol"
)

// HandleWebSocket upgrades the connection and runs a session until the
// client disconnects or a patch fails.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	conn.SetReadLimit(s.config.ReadLimit)

	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
	arena := host.NewArena()
	engine, err := s.newEngine(arena, logger)
	if err != nil {
		s.logger.Error("engine setup failed", "error", err)
		_ = conn.Close()
		return
	}
	session := s.sessions.create(conn, arena, engine, logger)
	defer s.sessions.Close(session.ID)

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				session.logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			em := &protocol.ErrorMessage{
				Code:    errors.CodeInvalidDocument,
				Message: "expected a text message holding a JSON tree",
			}
			if err := s.send(conn, protocol.ErrorFrame(em)); err != nil {
				return
			}
			continue
		}

		frames, fatal, err := session.apply(r.Context(), msg)
		if err != nil {
			em := errorMessage(err, fatal)
			if fatal {
				session.logger.Error("patch failed, closing session", "error", err)
			} else {
				session.logger.Debug("rejected document", "error", err)
			}
			if err := s.send(conn, protocol.ErrorFrame(em)); err != nil || fatal {
				if fatal {
					s.closeWith(conn, websocket.CloseInternalServerErr, em.Code)
				}
				return
			}
			continue
		}

		if err := s.send(conn, frames...); err != nil {
			session.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

func (s *Server) send(conn *websocket.Conn, frames ...*protocol.Frame) error {
	for _, f := range frames {
		_ = conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
		if err := conn.WriteMessage(websocket.BinaryMessage, f.Encode()); err != nil {
			return err
		}
		if s.config.Metrics != nil {
			s.config.Metrics.FrameSent()
		}
	}
	return nil
}

func (s *Server) closeWith(conn *websocket.Conn, code int, reason string) {
	msg := websocket.FormatCloseMessage(code, reason)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(s.config.WriteTimeout))
}

func errorMessage(err error, fatal bool) *protocol.ErrorMessage {
	em := &protocol.ErrorMessage{Message: err.Error(), Fatal: fatal}
	var e *errors.Error
	if stderrors.As(err, &e) {
		em.Code = e.Code
	}
	return em
}
