package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lgbarn/chessboard-go/internal/config"
	"github.com/lgbarn/chessboard-go/internal/logging"
	"github.com/lgbarn/chessboard-go/internal/output"
	"github.com/lgbarn/chessboard-go/internal/store"
)

// app holds what every command needs once flags and config are resolved.
type app struct {
	out    io.Writer
	errOut io.Writer

	// Persistent flags
	configPath string
	saveDir    string
	logLevel   string
	logFormat  string

	cfg   *config.Config
	log   zerolog.Logger
	store *store.Store
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:          "chessboard",
		Short:        "Edit saved chess boards and list their moves",
		Version:      programVersion,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML configuration file")
	pf.StringVar(&a.saveDir, "save-dir", "", "directory holding saved boards (default \"save\")")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: console or json")

	root.AddCommand(
		a.newCmd(),
		a.showCmd(),
		a.movesCmd(),
		a.moveCmd(),
		a.placeCmd(),
		a.clearCmd(),
		a.listCmd(),
		a.deleteCmd(),
		a.checkCmd(),
		a.findCmd(),
		a.serveCmd(),
	)

	return root
}

// setup resolves configuration: defaults, then the config file, then
// flags.
func (a *app) setup() error {
	cfg := config.NewConfig()
	if a.configPath != "" {
		loaded, err := config.Load(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	cfg = config.From(cfg).
		WithSaveDir(a.saveDir).
		WithLogLevel(a.logLevel).
		WithLogFormat(config.LogFormat(a.logFormat)).
		Build()
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logging.New(cfg.Log, a.errOut)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	a.store = store.New(cfg.Store.Dir, log)
	return nil
}

// writer picks the board writer for the --json flag.
func (a *app) writer(asJSON bool) output.BoardWriter {
	if asJSON {
		return output.NewJSONWriter(a.out)
	}
	return output.NewTextWriter(a.out)
}
