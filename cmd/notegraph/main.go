package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"notegraph/internal/bootstrap"
	"notegraph/internal/platform/config"
	"notegraph/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var vaultPath string

	root := &cobra.Command{
		Use:           "notegraph",
		Short:         "Co-occurrence graphs of markdown notes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&vaultPath, "vault", ".", "vault path")

	root.AddCommand(newTUICmd(&vaultPath))
	root.AddCommand(newNoteCmd(&vaultPath))
	root.AddCommand(newGraphCmd(&vaultPath))
	return root
}

// loadApp wires the application. The terminal explorer logs to a file under
// the vault state dir; every other command logs to stderr.
func loadApp(vaultPath string, toFile bool) (*bootstrap.App, error) {
	cfg, err := config.New(vaultPath)
	if err != nil {
		return nil, err
	}
	var outputs []string
	if toFile {
		if err := os.MkdirAll(cfg.StateDir(), 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
		outputs = append(outputs, filepath.Join(cfg.StateDir(), "notegraph.log"))
	}
	logger, err := logging.New(cfg.Log, outputs...)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger)
}

func newTUICmd(vaultPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal explorer",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(*vaultPath, true)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()
			return bootstrap.RunTUI(app)
		},
	}
}
