// Package audit validates every save in a store and finds saves that
// hold the same position.
package audit

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lgbarn/chessboard-go/internal/hashing"
	"github.com/lgbarn/chessboard-go/internal/store"
	"github.com/lgbarn/chessboard-go/internal/worker"
)

// Problem is a save that could not be loaded.
type Problem struct {
	Name string `json:"name"`
	Err  string `json:"error"`
}

// Report summarises an audit.
type Report struct {
	Checked    int               `json:"checked"`
	Valid      int               `json:"valid"`
	Problems   []Problem         `json:"problems"`
	Duplicates [][]string        `json:"duplicates"` // Sorted names per identical position
	Hashes     map[string]string `json:"hashes"`     // Position hash per valid save
}

// OK reports whether every save loaded.
func (r *Report) OK() bool {
	return len(r.Problems) == 0
}

// Run loads every save in st on workers goroutines, collecting malformed
// saves and groups of identical positions.
func Run(ctx context.Context, st *store.Store, workers int, log zerolog.Logger) (*Report, error) {
	names, err := st.List()
	if err != nil {
		return nil, err
	}

	detector := hashing.NewThreadSafeDuplicateDetector(0)
	load := func(_ context.Context, job worker.Job) worker.Result {
		board, err := st.Load(job.Name)
		if err != nil {
			return worker.Result{Name: job.Name, Index: job.Index, Err: err}
		}
		if orig, dup := detector.CheckAndAdd(job.Name, board.Snapshot()); dup {
			log.Debug().Str("name", job.Name).Str("same_as", orig).Msg("duplicate position")
		}
		return worker.Result{Name: job.Name, Index: job.Index, Board: board}
	}

	results := worker.Run(ctx, names, load, worker.WithWorkers(workers))
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{
		Checked:    len(results),
		Problems:   []Problem{},
		Duplicates: [][]string{},
		Hashes:     make(map[string]string, len(results)),
	}
	for _, r := range results {
		if r.Err != nil {
			report.Problems = append(report.Problems, Problem{Name: r.Name, Err: r.Err.Error()})
			continue
		}
		report.Valid++
		report.Hashes[r.Name] = hashing.HashString(r.Board.Snapshot())
	}

	// Workers finish in any order, so groups are sorted for stable output.
	for _, group := range detector.Duplicates() {
		g := append([]string(nil), group...)
		sort.Strings(g)
		report.Duplicates = append(report.Duplicates, g)
	}
	sort.Slice(report.Duplicates, func(i, j int) bool {
		return report.Duplicates[i][0] < report.Duplicates[j][0]
	})

	log.Info().
		Int("checked", report.Checked).
		Int("problems", len(report.Problems)).
		Int("duplicate_groups", len(report.Duplicates)).
		Msg("audit finished")
	return report, nil
}
