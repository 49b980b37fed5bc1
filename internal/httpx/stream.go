package httpx

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lgbarn/chessboard-go/internal/output"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// handleStream upgrades to a websocket and sends the board as JSON on
// connect and after every change. The stream ends when the game is
// deleted, the client goes away or the server shuts down.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	updates, cancel, err := s.games.Subscribe(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer cancel()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := s.log.With().Stringer("game", id).Str("remote", conn.RemoteAddr().String()).Logger()
	log.Debug().Msg("stream opened")

	// The read loop only services control frames and notices when the
	// client disconnects.
	gone := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(v interface{}) error {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(v)
	}
	closeWith := func(code int, text string) {
		msg := websocket.FormatCloseMessage(code, text)
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	}

	initial := sess.State()
	if err := send(output.BoardToJSON(initial.Board)); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case u, ok := <-updates:
			if !ok || u.Closed {
				closeWith(websocket.CloseNormalClosure, "game closed")
				log.Debug().Msg("stream closed with game")
				return
			}
			if u.Seq <= initial.Seq {
				// Already covered by the board sent on connect.
				continue
			}
			if err := send(output.BoardToJSON(u.Board)); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-gone:
			log.Debug().Msg("client disconnected")
			return
		case <-s.done:
			closeWith(websocket.CloseGoingAway, "server shutting down")
			return
		}
	}
}
