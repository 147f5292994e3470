package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pcb-editor/internal/anchor"
	"pcb-editor/internal/app"
	"pcb-editor/internal/board"
	"pcb-editor/internal/clipboard"
	"pcb-editor/internal/netlist"
	"pcb-editor/internal/project"
)

func newNewCmd(e *env) *cobra.Command {
	var name, form string
	cmd := &cobra.Command{
		Use:   "new <path>",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if filepath.Ext(path) == "" {
				path += project.Extension
			}
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			ed := app.NewEditor(e.cfg, e.log)
			ed.New(name)
			if form != "" {
				ff := board.LookupFormFactor(form)
				if ff == nil {
					return fmt.Errorf("unknown form factor %q (known: %s)", form, strings.Join(board.FormFactorKeys(), ", "))
				}
				ff.Apply(ed.Board())
			}
			if err := ed.Save(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "board name (default: file name)")
	cmd.Flags().StringVar(&form, "form", "", "start from a card form factor ("+strings.Join(board.FormFactorKeys(), ", ")+")")
	return cmd
}

func newInfoCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "info <path>",
		Short: "Summarize a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := e.open(args[0])
			if err != nil {
				return err
			}
			writeInfo(cmd.OutOrStdout(), ed.Board())
			return nil
		},
	}
}

func writeInfo(w io.Writer, b *board.Board) {
	fmt.Fprintln(w, b.String())
	fmt.Fprintf(w, "library: %d devices, %d packages\n", len(b.Library.Devices), len(b.Library.Packages))
	for _, n := range b.Circuit.NetSignals {
		var vias, junctions, traces int
		for _, s := range b.Segments {
			if s.NetSignal != n.ID {
				continue
			}
			vias += len(s.Vias)
			junctions += len(s.Junctions)
			traces += len(s.Traces)
		}
		fmt.Fprintf(w, "net %s: %d vias, %d junctions, %d traces\n", n.Name, vias, junctions, traces)
	}
}

func newCheckCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Check net segments for dangling anchors and broken connectivity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := e.open(args[0])
			if err != nil {
				return err
			}
			problems := checkBoard(ed.Board())
			for _, p := range problems {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}

// checkBoard lists every segment that is disconnected, empty, or has a
// trace end that does not resolve.
func checkBoard(b *board.Board) []string {
	var problems []string
	for _, s := range b.Segments {
		if b.Circuit.NetSignal(s.NetSignal) == nil {
			problems = append(problems, fmt.Sprintf("segment %s: unknown net signal %s", s.ID, s.NetSignal))
		}
		if s.IsEmpty() {
			problems = append(problems, fmt.Sprintf("segment %s: empty", s.ID))
			continue
		}
		for _, t := range s.Traces {
			for _, a := range []anchor.Anchor{t.Start, t.End} {
				if !resolves(b, s, a) {
					problems = append(problems, fmt.Sprintf("segment %s: trace %s: dangling %s", s.ID, t.ID, a))
				}
			}
		}
		if !netlist.IsConnected(s.Segment) {
			problems = append(problems, fmt.Sprintf("segment %s: not connected", s.ID))
		}
	}
	return problems
}

func resolves(b *board.Board, s *board.NetSegment, a anchor.Anchor) bool {
	if id, ok := a.TryJunction(); ok {
		return s.Junction(id) != nil
	}
	if id, ok := a.TryVia(); ok {
		return s.Via(id) != nil
	}
	if p, ok := a.TryPad(); ok {
		return b.HasPad(p.Device, p.Pad)
	}
	return false
}

func newRemoveCmd(e *env) *cobra.Command {
	var (
		ids        []string
		keepTraces bool
	)
	cmd := &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove items and save the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := e.open(args[0])
			if err != nil {
				return err
			}
			sel, err := classify(ed.Board(), ids)
			if err != nil {
				return err
			}
			modified, err := ed.Remove(sel, keepTraces)
			if err != nil {
				return err
			}
			if !modified {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing removed")
				return nil
			}
			if err := ed.Save(""); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ed.Board().String())
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "item id to remove (repeatable)")
	cmd.Flags().BoolVar(&keepTraces, "keep-traces", false, "keep traces of removed devices, ending on junctions")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newCopyCmd(e *env) *cobra.Command {
	var (
		ids    []string
		all    bool
		cursor string
	)
	cmd := &cobra.Command{
		Use:   "copy <path>",
		Short: "Copy items to the clipboard store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ed, err := e.open(args[0])
			if err != nil {
				return err
			}
			sel := ed.Board().All()
			if !all {
				if sel, err = classify(ed.Board(), ids); err != nil {
					return err
				}
			}
			at, err := parsePoint(cursor)
			if err != nil {
				return err
			}
			snap, err := ed.Copy(sel, at)
			if err != nil {
				return err
			}
			if snap.IsEmpty() {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing copied")
				return nil
			}

			store, err := clipboard.OpenStore(e.cfg.Clipboard.Dir)
			if err != nil {
				return err
			}
			defer store.Close()
			ctx := cmd.Context()
			id, err := store.Put(ctx, snap)
			if err != nil {
				return err
			}
			if n, err := store.Prune(ctx, e.cfg.Clipboard.Keep); err != nil {
				e.log.Warn("pruning clipboard failed", zap.Error(err))
			} else if n > 0 {
				e.log.Debug("pruned clipboard", zap.Int64("entries", n))
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&ids, "id", nil, "item id to copy (repeatable)")
	cmd.Flags().BoolVar(&all, "all", false, "copy every item of the board")
	cmd.Flags().StringVar(&cursor, "cursor", "0,0", "reference point as x,y in mm")
	return cmd
}

func newPasteCmd(e *env) *cobra.Command {
	var (
		entry string
		at    string
	)
	cmd := &cobra.Command{
		Use:   "paste <path>",
		Short: "Paste a clipboard entry and save the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parsePoint(at)
			if err != nil {
				return err
			}
			ed, err := e.open(args[0])
			if err != nil {
				return err
			}
			ent, err := loadEntry(cmd.Context(), e.cfg.Clipboard.Dir, entry)
			if err != nil {
				return err
			}
			modified, err := ed.Paste(ent.Snapshot, pos)
			if err != nil {
				return err
			}
			if !modified {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing pasted")
				return nil
			}
			if err := ed.Save(""); err != nil {
				return err
			}
			sel := ed.Board().SelectedItems()
			fmt.Fprintf(cmd.OutOrStdout(), "pasted %d items from %s\n", len(sel.IDs()), ent.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "clipboard entry id (default: latest)")
	cmd.Flags().StringVar(&at, "at", "", "paste position as x,y in mm")
	cmd.MarkFlagRequired("at")
	return cmd
}

func loadEntry(ctx context.Context, dir, id string) (*clipboard.Entry, error) {
	store, err := clipboard.OpenStore(dir)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	if id == "" {
		return store.Latest(ctx)
	}
	return store.Get(ctx, id)
}

func classify(b *board.Board, args []string) (board.Selection, error) {
	ids, err := parseIDs(args)
	if err != nil {
		return board.Selection{}, err
	}
	return b.Classify(ids)
}
