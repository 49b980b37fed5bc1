package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/hashing"
	"github.com/lgbarn/chessboard-go/internal/store"
	"github.com/lgbarn/chessboard-go/internal/testutil"
)

func TestRun(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "save"), zerolog.Nop())

	start := chess.NewBoard()
	for _, name := range []string{"opening", "copy", "another"} {
		testutil.AssertNoError(t, st.Save(name, start))
	}
	testutil.AssertNoError(t, st.Save("empty", chess.NewEmptyBoard()))
	testutil.AssertNoError(t, os.WriteFile(filepath.Join(st.Dir(), "broken.txt"), []byte("wk\n"), 0o644))

	report, err := Run(context.Background(), st, 3, zerolog.Nop())
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, report.Checked, 5)
	testutil.AssertEqual(t, report.Valid, 4)
	testutil.AssertFalse(t, report.OK())
	testutil.AssertEqual(t, len(report.Problems), 1)
	testutil.AssertEqual(t, report.Problems[0].Name, "broken")
	testutil.AssertContains(t, report.Problems[0].Err, "malformed save")

	testutil.AssertEqual(t, report.Duplicates, [][]string{{"another", "copy", "opening"}})
	testutil.AssertEqual(t, report.Hashes["opening"], hashing.HashString(start.Snapshot()))
	testutil.AssertEqual(t, report.Hashes["empty"], hashing.HashString(chess.Grid{}))
	_, ok := report.Hashes["broken"]
	testutil.AssertFalse(t, ok)
}

func TestRunEmptyStore(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "none"), zerolog.Nop())

	report, err := Run(context.Background(), st, 2, zerolog.Nop())
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, report.OK())
	testutil.AssertEqual(t, report.Checked, 0)
	testutil.AssertEqual(t, report.Duplicates, [][]string{})
}

func TestRunCancelled(t *testing.T) {
	st := store.New(filepath.Join(t.TempDir(), "save"), zerolog.Nop())
	testutil.AssertNoError(t, st.Save("one", chess.NewBoard()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, st, 1, zerolog.Nop())
	testutil.AssertErrorIs(t, err, context.Canceled)
}
