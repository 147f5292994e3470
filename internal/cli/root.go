// Package cli implements the pcbedit command line.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pcb-editor/internal/app"
	"pcb-editor/internal/config"
	"pcb-editor/internal/logging"
	"pcb-editor/internal/version"
	"pcb-editor/pkg/geometry"
)

// env carries what the persistent pre-run sets up for the subcommands.
type env struct {
	configPath string
	verbose    bool

	cfg *config.Config
	log *zap.Logger
}

// NewRootCmd builds the pcbedit command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}
	cmd := &cobra.Command{
		Use:           "pcbedit",
		Short:         "pcbedit - edit PCB project files",
		Long:          "pcbedit removes, copies and pastes board items of .pcbproj files with connectivity kept consistent.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if e.log != nil {
				_ = e.log.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&e.configPath, "config", "c", config.DefaultPath(), "path to config file")
	cmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newNewCmd(e))
	cmd.AddCommand(newInfoCmd(e))
	cmd.AddCommand(newCheckCmd(e))
	cmd.AddCommand(newRemoveCmd(e))
	cmd.AddCommand(newCopyCmd(e))
	cmd.AddCommand(newPasteCmd(e))
	return cmd
}

func (e *env) init() error {
	cfg, err := config.Load(e.configPath)
	if err != nil {
		return err
	}
	if e.verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	e.cfg, e.log = cfg, log
	return nil
}

// open loads a project into a new editor.
func (e *env) open(path string) (*app.Editor, error) {
	ed := app.NewEditor(e.cfg, e.log)
	if err := ed.Open(path); err != nil {
		return nil, err
	}
	return ed, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// parseIDs parses item ids given on the command line.
func parseIDs(args []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(args))
	for _, a := range args {
		id, err := uuid.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("invalid item id %q: %w", a, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parsePoint parses "x,y" in millimetres.
func parsePoint(s string) (geometry.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("invalid point %q: want x,y in mm", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geometry.Point{X: geometry.Mm(x), Y: geometry.Mm(y)}, nil
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
