package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newNoteCmd(vaultPath *string) *cobra.Command {
	note := &cobra.Command{Use: "note", Short: "Manage vault notes"}

	var title, body, file string
	add := &cobra.Command{
		Use:   "add --title <title> [--body <text> | --file <path>]",
		Short: "Create a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title is required")
			}
			if body != "" && file != "" {
				return fmt.Errorf("--body and --file are mutually exclusive")
			}
			if file != "" {
				raw, err := os.ReadFile(file)
				if err != nil {
					return fmt.Errorf("read body file: %w", err)
				}
				body = string(raw)
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			out, err := app.NoteCLI.Add(context.Background(), title, body)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "note created: %s path=%s words=%d\n", out.ID, out.Path, out.Words)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "note title")
	add.Flags().StringVar(&body, "body", "", "note body")
	add.Flags().StringVar(&file, "file", "", "read the body from a file")

	list := &cobra.Command{
		Use:   "list",
		Short: "List notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			notes, err := app.NoteCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no notes")
				return nil
			}
			for _, n := range notes {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d words\t%s\n", n.ID, n.Title, n.Words, n.Path)
			}
			return nil
		},
	}

	var noteID string
	show := &cobra.Command{
		Use:   "show --id <id>",
		Short: "Show a note",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(noteID) == "" {
				return fmt.Errorf("--id is required")
			}
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			n, err := app.NoteCLI.Get(context.Background(), noteID)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ntitle: %s\npath: %s\nwords: %d\nupdated: %s\n\n%s\n",
				n.ID, n.Title, n.Path, n.Words, n.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"), strings.TrimSpace(n.Body))
			return nil
		},
	}
	show.Flags().StringVar(&noteID, "id", "", "note id")

	reindex := &cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the SQLite note index from vault markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(*vaultPath, false)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			count, err := app.NoteCLI.Reindex(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reindex completed: %d notes\n", count)
			return nil
		},
	}

	note.AddCommand(add, list, show, reindex)
	return note
}
