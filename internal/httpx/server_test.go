package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/output"
	"github.com/lgbarn/chessboard-go/internal/session"
	"github.com/lgbarn/chessboard-go/internal/store"
	"github.com/lgbarn/chessboard-go/internal/testutil"
)

func newTestServer(t *testing.T, maxGames int) *Server {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "save"), zerolog.Nop())
	return NewServer(session.NewManager(maxGames, zerolog.Nop()), st, zerolog.Nop())
}

func do(t *testing.T, srv http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

func createGame(t *testing.T, srv http.Handler) gameJSON {
	t.Helper()
	rr := do(t, srv, http.MethodPost, "/api/games", "")
	testutil.AssertEqual(t, rr.Code, http.StatusCreated, rr.Body.String())
	var g gameJSON
	decode(t, rr, &g)
	return g
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rr, &body)
	return body["error"]
}

func TestCreateAndGetGame(t *testing.T) {
	srv := newTestServer(t, 0)

	g := createGame(t, srv)
	testutil.AssertEqual(t, g.Board.Text, chess.NewBoard().Serialize())
	testutil.AssertEqual(t, g.Board.Pieces, 32)
	testutil.AssertEqual(t, g.Board.Rows[7][4], "wk")
	testutil.AssertNil(t, g.LastMove)

	rr := do(t, srv, http.MethodGet, "/api/games/"+g.ID, "")
	testutil.AssertEqual(t, rr.Code, http.StatusOK)
	testutil.AssertContains(t, rr.Header().Get("Content-Type"), "application/json")

	rr = do(t, srv, http.MethodGet, "/api/games", "")
	var list map[string][]string
	decode(t, rr, &list)
	testutil.AssertEqual(t, list["games"], []string{g.ID})
}

func TestUnknownGame(t *testing.T) {
	srv := newTestServer(t, 0)

	for _, path := range []string{
		"/api/games/6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"/api/games/not-a-uuid",
	} {
		rr := do(t, srv, http.MethodGet, path, "")
		testutil.AssertEqual(t, rr.Code, http.StatusNotFound, path)
		testutil.AssertContains(t, errorMessage(t, rr), "game not found")
	}
}

func TestMovesEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)

	rr := do(t, srv, http.MethodGet, "/api/games/"+g.ID+"/moves?square=g1", "")
	testutil.AssertEqual(t, rr.Code, http.StatusOK)

	var moves output.JSONMoves
	decode(t, rr, &moves)
	testutil.AssertEqual(t, moves.Piece, "wn")
	testutil.AssertEqual(t, moves.From, output.JSONSquare{Row: 7, Col: 6, Name: "g1"})
	testutil.AssertEqual(t, moves.Quiet, []output.JSONSquare{
		{Row: 5, Col: 5, Name: "f3"},
		{Row: 5, Col: 7, Name: "h3"},
	})
	testutil.AssertEqual(t, moves.Captures, []output.JSONSquare{})

	rr = do(t, srv, http.MethodGet, "/api/games/"+g.ID+"/moves?square=9,0", "")
	testutil.AssertEqual(t, rr.Code, http.StatusBadRequest)

	rr = do(t, srv, http.MethodGet, "/api/games/"+g.ID+"/moves?square=z9", "")
	testutil.AssertEqual(t, rr.Code, http.StatusBadRequest)
}

func TestMoveEndpoint(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)
	path := "/api/games/" + g.ID + "/move"

	rr := do(t, srv, http.MethodPost, path, `{"from":"e2","to":"e4"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusOK, rr.Body.String())

	var after gameJSON
	decode(t, rr, &after)
	testutil.AssertEqual(t, after.Board.Rows[4][4], "wp")
	testutil.AssertEqual(t, after.Board.Rows[6][4], "--")
	testutil.AssertEqual(t, after.LastMove.From.Name, "e2")
	testutil.AssertEqual(t, after.LastMove.To.Name, "e4")

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"illegal", `{"from":"a1","to":"a4"}`, http.StatusUnprocessableEntity},
		{"coordinates", `{"from":"7,0","to":"4,0"}`, http.StatusUnprocessableEntity},
		{"off board", `{"from":"6,0","to":"-1,0"}`, http.StatusBadRequest},
		{"bad square", `{"from":"e9","to":"e4"}`, http.StatusBadRequest},
		{"bad json", `{"from":`, http.StatusBadRequest},
		{"unknown field", `{"from":"e2","to":"e4","promote":"q"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, path, tt.body)
			testutil.AssertEqual(t, rr.Code, tt.status, rr.Body.String())

			// Rejected moves never change the board.
			rr = do(t, srv, http.MethodGet, "/api/games/"+g.ID, "")
			var now gameJSON
			decode(t, rr, &now)
			testutil.AssertEqual(t, now.Board.Text, after.Board.Text)
		})
	}
}

func TestPlaceResetClear(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)
	base := "/api/games/" + g.ID

	rr := do(t, srv, http.MethodPut, base+"/squares/d4", `{"piece":"bq"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusOK, rr.Body.String())
	var placed gameJSON
	decode(t, rr, &placed)
	testutil.AssertEqual(t, placed.Board.Rows[4][3], "bq")

	rr = do(t, srv, http.MethodPut, base+"/squares/d4", `{"piece":"xx"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusBadRequest)

	rr = do(t, srv, http.MethodPut, base+"/squares/8,8", `{"piece":"wp"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusBadRequest)

	rr = do(t, srv, http.MethodPost, base+"/clear", "")
	var cleared gameJSON
	decode(t, rr, &cleared)
	testutil.AssertEqual(t, cleared.Board.Pieces, 0)

	rr = do(t, srv, http.MethodPost, base+"/reset", "")
	var reset gameJSON
	decode(t, rr, &reset)
	testutil.AssertEqual(t, reset.Board.Text, chess.NewBoard().Serialize())
}

func TestOversizedBody(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)
	big := strings.Repeat("x", 70<<10)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"move", http.MethodPost, "/api/games/" + g.ID + "/move", `{"from":"` + big + `","to":"e4"}`},
		{"place", http.MethodPut, "/api/games/" + g.ID + "/squares/d4", `{"piece":"` + big + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.path, tt.body)
			testutil.AssertEqual(t, rr.Code, http.StatusRequestEntityTooLarge, errorMessage(t, rr))
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)
	base := "/api/games/" + g.ID

	rr := do(t, srv, http.MethodPost, base+"/move", `{"from":"b1","to":"c3"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusOK)
	var moved gameJSON
	decode(t, rr, &moved)

	rr = do(t, srv, http.MethodPost, base+"/save/knight", "")
	testutil.AssertEqual(t, rr.Code, http.StatusOK, rr.Body.String())

	rr = do(t, srv, http.MethodPost, base+"/save/bad.name", "")
	testutil.AssertEqual(t, rr.Code, http.StatusBadRequest)

	rr = do(t, srv, http.MethodGet, "/api/saves", "")
	var saves map[string][]string
	decode(t, rr, &saves)
	testutil.AssertEqual(t, saves["saves"], []string{"knight"})

	do(t, srv, http.MethodPost, base+"/reset", "")
	rr = do(t, srv, http.MethodPost, base+"/load/knight", "")
	testutil.AssertEqual(t, rr.Code, http.StatusOK)
	var loaded gameJSON
	decode(t, rr, &loaded)
	testutil.AssertEqual(t, loaded.Board.Text, moved.Board.Text)

	rr = do(t, srv, http.MethodPost, base+"/load/missing", "")
	testutil.AssertEqual(t, rr.Code, http.StatusNotFound)

	// A new game can start from a save.
	rr = do(t, srv, http.MethodPost, "/api/games?load=knight", "")
	testutil.AssertEqual(t, rr.Code, http.StatusCreated)
	var fromSave gameJSON
	decode(t, rr, &fromSave)
	testutil.AssertEqual(t, fromSave.Board.Text, moved.Board.Text)

	rr = do(t, srv, http.MethodDelete, "/api/saves/knight", "")
	testutil.AssertEqual(t, rr.Code, http.StatusNoContent)
	rr = do(t, srv, http.MethodDelete, "/api/saves/knight", "")
	testutil.AssertEqual(t, rr.Code, http.StatusNotFound)
}

func TestLoadMalformedSave(t *testing.T) {
	srv := newTestServer(t, 0)
	g := createGame(t, srv)

	testutil.AssertNoError(t, os.MkdirAll(srv.store.Dir(), 0o755))
	bad := strings.Repeat("-- -- -- -- -- -- -- --\n", 7)
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(srv.store.Dir(), "short.txt"), []byte(bad), 0o644))

	rr := do(t, srv, http.MethodPost, "/api/games/"+g.ID+"/load/short", "")
	testutil.AssertEqual(t, rr.Code, http.StatusUnprocessableEntity)
	testutil.AssertContains(t, errorMessage(t, rr), "malformed save")

	rr = do(t, srv, http.MethodGet, "/api/games/"+g.ID, "")
	var now gameJSON
	decode(t, rr, &now)
	testutil.AssertEqual(t, now.Board.Text, chess.NewBoard().Serialize())
}

func TestDeleteGameAndLimit(t *testing.T) {
	srv := newTestServer(t, 1)
	g := createGame(t, srv)

	rr := do(t, srv, http.MethodPost, "/api/games", "")
	testutil.AssertEqual(t, rr.Code, http.StatusTooManyRequests)

	rr = do(t, srv, http.MethodDelete, "/api/games/"+g.ID, "")
	testutil.AssertEqual(t, rr.Code, http.StatusNoContent)
	rr = do(t, srv, http.MethodDelete, "/api/games/"+g.ID, "")
	testutil.AssertEqual(t, rr.Code, http.StatusNotFound)

	createGame(t, srv)
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t, 0)
	rr := do(t, srv, http.MethodGet, "/api/nothing", "")
	testutil.AssertEqual(t, rr.Code, http.StatusNotFound)
	testutil.AssertEqual(t, errorMessage(t, rr), "not found")
}

func readBoard(t *testing.T, conn *websocket.Conn) output.JSONBoard {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var b output.JSONBoard
	if err := conn.ReadJSON(&b); err != nil {
		t.Fatalf("read board: %v", err)
	}
	return b
}

func TestStream(t *testing.T) {
	srv := newTestServer(t, 0)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	g := createGame(t, srv)
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/" + g.ID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	testutil.AssertNoError(t, err)
	defer conn.Close()

	initial := readBoard(t, conn)
	testutil.AssertEqual(t, initial.Text, chess.NewBoard().Serialize())

	rr := do(t, srv, http.MethodPost, "/api/games/"+g.ID+"/move", `{"from":"d2","to":"d4"}`)
	testutil.AssertEqual(t, rr.Code, http.StatusOK)

	update := readBoard(t, conn)
	testutil.AssertEqual(t, update.Rows[4][3], "wp")
	testutil.AssertEqual(t, update.Rows[6][3], "--")

	// Deleting the game closes the stream.
	rr = do(t, srv, http.MethodDelete, "/api/games/"+g.ID, "")
	testutil.AssertEqual(t, rr.Code, http.StatusNoContent)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	testutil.AssertTrue(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "want normal closure, got %v", err)
}

func TestStreamUnknownGame(t *testing.T) {
	srv := newTestServer(t, 0)
	ts := httptest.NewServer(srv)
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/games/6ba7b810-9dad-11d1-80b4-00c04fd430c8/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, resp.StatusCode, http.StatusNotFound)
}
