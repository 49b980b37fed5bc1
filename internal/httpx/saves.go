package httpx

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	_, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	name := mux.Vars(r)["name"]
	if err := sess.Save(s.store, name); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"saved": name})
}

// handleLoad replaces the game's board with a save. A malformed save is
// rejected with 422 and the board is left as it was.
func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	id, sess, err := s.game(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.Load(s.store, mux.Vars(r)["name"]); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, gameResponse(id, sess))
}

func (s *Server) handleListSaves(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.List()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"saves": names})
}

func (s *Server) handleDeleteSave(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(mux.Vars(r)["name"]); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
