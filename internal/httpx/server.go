// Package httpx serves game sessions over HTTP and websockets.
package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/errors"
	"github.com/lgbarn/chessboard-go/internal/session"
	"github.com/lgbarn/chessboard-go/internal/store"
)

const (
	maxJSONBodyBytes int64 = 1 << 16
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
)

// Server wires the HTTP layer to the session manager and the save store.
type Server struct {
	games    *session.Manager
	store    *store.Store
	log      zerolog.Logger
	router   *mux.Router
	handler  http.Handler
	upgrader websocket.Upgrader

	// done is closed when the server shuts down so websocket streams,
	// which Shutdown does not track, can end.
	done     chan struct{}
	doneOnce sync.Once
}

// NewServer builds a Server and its routes.
func NewServer(games *session.Manager, st *store.Store, log zerolog.Logger) *Server {
	s := &Server{
		games:  games,
		store:  st,
		log:    log.With().Str("component", "http").Logger(),
		router: mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		done: make(chan struct{}),
	}
	s.routes()
	s.handler = handlers.CombinedLoggingHandler(s.log, s.router)
	return s
}

func (s *Server) routes() {
	r := s.router
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	// The stream upgrades the connection, so it sits outside the JSON
	// middleware.
	r.HandleFunc("/api/games/{id}/ws", s.handleStream).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(withJSON)

	api.HandleFunc("/games", s.handleCreateGame).Methods(http.MethodPost)
	api.HandleFunc("/games", s.handleListGames).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleGetGame).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}", s.handleDeleteGame).Methods(http.MethodDelete)
	api.HandleFunc("/games/{id}/moves", s.handleMoves).Methods(http.MethodGet)
	api.HandleFunc("/games/{id}/move", s.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/squares/{square}", s.handlePlace).Methods(http.MethodPut)
	api.HandleFunc("/games/{id}/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/clear", s.handleClear).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/save/{name}", s.handleSave).Methods(http.MethodPost)
	api.HandleFunc("/games/{id}/load/{name}", s.handleLoad).Methods(http.MethodPost)
	api.HandleFunc("/saves", s.handleListSaves).Methods(http.MethodGet)
	api.HandleFunc("/saves/{name}", s.handleDeleteSave).Methods(http.MethodDelete)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

// ServeHTTP logs each request in combined log format and dispatches it.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most shutdownTimeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
	srv.RegisterOnShutdown(s.closeStreams)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Dur("timeout", shutdownTimeout).Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	return nil
}

func (s *Server) closeStreams() {
	s.doneOnce.Do(func() { close(s.done) })
}

// ---- JSON helpers ----

func withJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail writes err with the status its sentinel maps to.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeError(w, status, err.Error())
}

// failBody reports a request body that could not be decoded. Oversized
// bodies keep their own status, anything else is a bad request.
func (s *Server) failBody(w http.ResponseWriter, r *http.Request, err error) {
	if statusFor(err) == http.StatusRequestEntityTooLarge {
		s.fail(w, r, err)
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errors.ErrOutOfRange),
		errors.Is(err, errors.ErrInvalidSquare),
		errors.Is(err, errors.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrGameNotFound),
		errors.Is(err, errors.ErrSaveNotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.ErrIllegalMove),
		errors.Is(err, errors.ErrMalformedSave):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrGameLimit):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
