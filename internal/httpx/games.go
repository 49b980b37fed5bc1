package httpx

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
	"github.com/lgbarn/chessboard-go/internal/output"
	"github.com/lgbarn/chessboard-go/internal/session"
)

type moveJSON struct {
	From  output.JSONSquare `json:"from"`
	To    output.JSONSquare `json:"to"`
	Piece string            `json:"piece"`
}

type gameJSON struct {
	ID       string            `json:"id"`
	Board    *output.JSONBoard `json:"board"`
	LastMove *moveJSON         `json:"last_move,omitempty"`
}

func gameResponse(id uuid.UUID, sess *session.Session) gameJSON {
	st := sess.State()
	g := gameJSON{
		ID:    id.String(),
		Board: output.BoardToJSON(st.Board),
	}
	if last := st.Last; last != nil {
		g.LastMove = &moveJSON{
			From:  output.SquareToJSON(last.From),
			To:    output.SquareToJSON(last.To),
			Piece: last.Piece.String(),
		}
	}
	return g
}

// game resolves the {id} route variable.
func (s *Server) game(r *http.Request) (uuid.UUID, *session.Session, error) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("%q: %w", raw, errors.ErrGameNotFound)
	}
	sess, err := s.games.Get(id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, sess, nil
}

// handleCreateGame opens a session on the starting position, or on the
// save named by the "load" query parameter.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	sess := session.NewSession()
	if name := r.URL.Query().Get("load"); name != "" {
		if err := sess.Load(s.store, name); err != nil {
			s.fail(w, r, err)
			return
		}
	}

	id, sess, err := s.games.Add(sess)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/games/"+id.String())
	writeJSON(w, http.StatusCreated, gameResponse(id, sess))
}

func (s *Server) handleListGames(w http.ResponseWriter, _ *http.Request) {
	ids := s.games.List()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	writeJSON(w, http.StatusOK, map[string][]string{"games": out})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, _, err := s.game(r)
	if err == nil {
		err = s.games.Delete(id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sq, err := chess.ParseSquare(r.URL.Query().Get("square"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	piece, moves, err := sess.PieceMoves(sq)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, output.MovesToJSON(sq, piece, moves))
}

type moveRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req moveRequest
	if err := decodeBody(r, &req); err != nil {
		s.failBody(w, r, err)
		return
	}
	from, err := chess.ParseSquare(req.From)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	to, err := chess.ParseSquare(req.To)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := sess.Move(from, to); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}

type placeRequest struct {
	Piece string `json:"piece"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sq, err := chess.ParseSquare(mux.Vars(r)["square"])
	if err != nil {
		s.fail(w, r, err)
		return
	}

	var req placeRequest
	if err := decodeBody(r, &req); err != nil {
		s.failBody(w, r, err)
		return
	}
	piece, err := chess.ParseOccupant(req.Piece)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid piece %q", req.Piece))
		return
	}

	if err := sess.Place(sq, piece); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.Reset()
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.Clear()
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}
