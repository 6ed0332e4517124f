package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	graphdto "notegraph/internal/modules/graph/dto"
)

func newGraphCmd(vaultPath *string) *cobra.Command {
	graph := &cobra.Command{Use: "graph", Short: "Co-occurrence graph commands"}

	var noteID string
	var asJSON bool
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Compute or fetch the graph of a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(noteID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.GraphCLI.Show(context.Background(), noteID)
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), out, asJSON)
		},
	}
	show.Flags().StringVar(&noteID, "id", "", "note id")
	show.Flags().BoolVar(&asJSON, "json", false, "print the full record as JSON")

	var window int
	var textJSON bool
	text := &cobra.Command{
		Use:   "text [--window n] <text|->",
		Short: "Build a graph from ad-hoc text (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if input == "-" {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				input = string(raw)
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.GraphCLI.Analyze(context.Background(), input, window)
			if err != nil {
				return err
			}
			return writeGraph(cmd.OutOrStdout(), out, textJSON)
		},
	}
	text.Flags().IntVar(&window, "window", 0, "co-occurrence window (default from config)")
	text.Flags().BoolVar(&textJSON, "json", false, "print the full record as JSON")

	var exportID, nodesPath, linksPath string
	export := &cobra.Command{
		Use:   "export --id <id> --nodes <file> --links <file>",
		Short: "Export a note graph as node and link CSV files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(exportID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			if err := app.GraphCLI.Export(context.Background(), exportID, nodesPath, linksPath); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %s: nodes=%s links=%s\n", exportID, nodesPath, linksPath)
			return nil
		},
	}
	export.Flags().StringVar(&exportID, "id", "", "note id")
	export.Flags().StringVar(&nodesPath, "nodes", "", "nodes CSV path")
	export.Flags().StringVar(&linksPath, "links", "", "links CSV path")

	var dotID, dotOut string
	dot := &cobra.Command{
		Use:   "dot --id <id> [--out file]",
		Short: "Render a note graph as Graphviz DOT",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(dotID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			raw, err := app.GraphCLI.DOT(context.Background(), dotID)
			if err != nil {
				return err
			}
			if dotOut == "" {
				_, err = cmd.OutOrStdout().Write(append(raw, '\n'))
				return err
			}
			if err := os.WriteFile(dotOut, append(raw, '\n'), 0o644); err != nil {
				return fmt.Errorf("write dot file: %w", err)
			}
			return nil
		},
	}
	dot.Flags().StringVar(&dotID, "id", "", "note id")
	dot.Flags().StringVar(&dotOut, "out", "", "output file (default stdout)")

	watch := &cobra.Command{
		Use:   "watch",
		Short: "Recompute graphs as notes change on disk",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, "watching notes, ctrl+c to stop")
			err = app.GraphCLI.Watch(ctx, func(ev graphdto.RefreshEvent) {
				if ev.Err != nil {
					_, _ = fmt.Fprintf(w, "%s\terror: %v\n", ev.NoteID, ev.Err)
					return
				}
				_, _ = fmt.Fprintf(w, "%s\t%d terms\t%d links\t%s\n", ev.NoteID, ev.Nodes, ev.Links, ev.Elapsed)
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			st := app.GraphCLI.Stats(context.Background())
			_, _ = fmt.Fprintf(w, "computed %d  coalesced %d  stale %d  failures %d\n",
				st.Computations, st.Coalesced, st.DiscardedStale, st.Failures)
			return nil
		},
	}

	graph.AddCommand(show, text, export, dot, watch)
	return graph
}

func writeGraph(w io.Writer, out graphdto.GraphOutput, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if out.Title != "" {
		_, _ = fmt.Fprintf(w, "%s (%s)\n", out.Title, out.NoteID)
	}
	s := out.Summary
	_, _ = fmt.Fprintf(w, "terms=%d links=%d clusters=%d modularity=%.4f\n", s.Nodes, s.Links, s.Clusters, s.Modularity)
	for _, c := range out.Clusters {
		_, _ = fmt.Fprintf(w, "  #%d %s (%d)\t%s\n", c.ID, c.Color, c.Size, strings.Join(c.Terms, ", "))
	}
	return nil
}
