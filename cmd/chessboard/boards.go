package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lgbarn/chessboard-go/internal/chess"
	"github.com/lgbarn/chessboard-go/internal/errors"
	"github.com/lgbarn/chessboard-go/internal/session"
)

func (a *app) newCmd() *cobra.Command {
	var empty, force bool
	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Save a fresh starting position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !force && a.store.Exists(name) {
				return fmt.Errorf("save %q already exists (use --force to overwrite)", name)
			}
			board := chess.NewBoard()
			if empty {
				board = chess.NewEmptyBoard()
			}
			if err := a.store.Save(name, board); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "created %s\n", name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&empty, "empty", false, "start from an empty board")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing save")
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print a saved board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := a.store.Load(args[0])
			if err != nil {
				return err
			}
			return a.writer(asJSON).WriteBoard(board.Snapshot())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a diagram")
	return cmd
}

func (a *app) movesCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "moves <name> <square>",
		Short: "List the quiet moves and captures of a piece",
		Long: `List the quiet moves and captures of the piece on a square.

Squares are given in algebraic form ("e2") or as row,col ("6,4") with
row 0 at Black's back rank.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(args[0])
			if err != nil {
				return err
			}
			sq, err := chess.ParseSquare(args[1])
			if err != nil {
				return err
			}
			moves, err := sess.Moves(sq)
			if err != nil {
				return err
			}
			return a.writer(asJSON).WriteMoves(sess.Board(), sq, moves)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a diagram")
	return cmd
}

func (a *app) moveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <name> <from> <to>",
		Short: "Move a piece and save the result",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			sess, err := a.open(name)
			if err != nil {
				return err
			}
			from, err := chess.ParseSquare(args[1])
			if err != nil {
				return err
			}
			to, err := chess.ParseSquare(args[2])
			if err != nil {
				return err
			}

			if err := sess.Move(from, to); err != nil {
				return err
			}
			if err := sess.Save(a.store, name); err != nil {
				return err
			}

			last := sess.LastMove()
			a.log.Info().Str("name", name).Str("piece", last.Piece.String()).
				Str("from", from.Algebraic()).Str("to", to.Algebraic()).Msg("move applied")
			fmt.Fprintf(a.out, "%s %s-%s\n", last.Piece.Name(), from.Algebraic(), to.Algebraic())
			return nil
		},
	}
}

func (a *app) placeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <name> <square> <token>",
		Short: `Put a piece ("wq", "bn", ...) or "--" on a square`,
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			sess, err := a.open(name)
			if err != nil {
				return err
			}
			sq, err := chess.ParseSquare(args[1])
			if err != nil {
				return err
			}
			piece, err := chess.ParseOccupant(args[2])
			if err != nil {
				return fmt.Errorf("invalid piece %q", args[2])
			}
			if err := sess.Place(sq, piece); err != nil {
				return err
			}
			return sess.Save(a.store, name)
		},
	}
}

func (a *app) clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear <name>",
		Short: "Empty every square of a saved board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.open(args[0])
			if err != nil {
				return err
			}
			sess.Clear()
			return sess.Save(a.store, args[0])
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := a.store.List()
			if err != nil {
				return err
			}
			for _, name := range names {
				fmt.Fprintln(a.out, name)
			}
			return nil
		},
	}
}

func (a *app) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a saved board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store.Delete(args[0])
		},
	}
}

// open loads the save named name into a session.
func (a *app) open(name string) (*session.Session, error) {
	board, err := a.store.Load(name)
	if err != nil {
		if errors.Is(err, errors.ErrMalformedSave) {
			return nil, errors.Wrapf(err, "save %s is damaged; fix or delete it", name)
		}
		return nil, err
	}
	return session.NewSessionFromBoard(board), nil
}
