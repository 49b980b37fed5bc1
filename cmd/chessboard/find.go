package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessboard-go/internal/matching"
	"github.com/lgbarn/chessboard-go/internal/worker"
)

func (a *app) findCmd() *cobra.Command {
	var (
		exact   bool
		strict  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "find <material>",
		Short: "List saves holding the given material, e.g. \"KR:k\"",
		Long: `List saves whose pieces match a material pattern.

White pieces are written in upper case before the colon, Black pieces in
lower case after it: K, Q, R, B, N, P. "KR:k" finds boards where White has
at least a king and a rook and Black at least a king. With --exact the
board must hold exactly those pieces. With --strict the search stops at
the first save that cannot be read.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mm, err := matching.NewMaterialMatcher(args[0], exact)
			if err != nil {
				return err
			}
			if !mm.HasCriteria() {
				return fmt.Errorf("empty material pattern")
			}
			names, err := a.store.List()
			if err != nil {
				return err
			}

			load := func(_ context.Context, job worker.Job) worker.Result {
				board, err := a.store.Load(job.Name)
				return worker.Result{Name: job.Name, Index: job.Index, Board: board, Err: err}
			}
			opts := []worker.Option{worker.WithWorkers(workers)}
			if strict {
				opts = append(opts, worker.WithStopOnError())
			}
			for _, r := range worker.Run(cmd.Context(), names, load, opts...) {
				if r.Err != nil {
					if strict {
						return r.Err
					}
					a.log.Warn().Err(r.Err).Str("name", r.Name).Msg("skipping save")
					continue
				}
				if grid := r.Board.Snapshot(); mm.Match(grid) {
					fmt.Fprintf(a.out, "%s\t%s\n", r.Name, matching.CountMaterial(grid))
				}
			}
			return cmd.Context().Err()
		},
	}
	cmd.Flags().BoolVar(&exact, "exact", false, "require exactly the given pieces")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on the first unreadable save")
	cmd.Flags().IntVarP(&workers, "workers", "j", runtime.NumCPU(), "number of saves to load in parallel")
	return cmd
}
