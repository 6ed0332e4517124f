package bootstrap

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	graphinadapter "notegraph/internal/modules/graph/adapter/in"
	graphoutadapter "notegraph/internal/modules/graph/adapter/out"
	"notegraph/internal/modules/graph/domain"
	graphdto "notegraph/internal/modules/graph/dto"
	graphservice "notegraph/internal/modules/graph/service"
	graphusecase "notegraph/internal/modules/graph/usecase"
	noteinadapter "notegraph/internal/modules/note/adapter/in"
	noteoutadapter "notegraph/internal/modules/note/adapter/out"
	noteservice "notegraph/internal/modules/note/service"
	noteusecase "notegraph/internal/modules/note/usecase"
	"notegraph/internal/platform/clock"
	"notegraph/internal/platform/config"
	"notegraph/internal/platform/id"
	uiapp "notegraph/internal/ui/app"
	graphview "notegraph/internal/ui/views/graph"
)

type App struct {
	NoteCLI  noteinadapter.CLIHandler
	GraphCLI graphinadapter.CLIHandler
	Logger   *zap.Logger

	index *noteoutadapter.SQLiteNoteIndex
	host  *graphoutadapter.WorkerHost
	cache *graphservice.GraphCache
}

func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	noteIndex, err := noteoutadapter.NewSQLiteNoteIndex(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("new note index: %w", err)
	}
	noteUC := noteusecase.NewInteractor(noteservice.NewNoteService(
		clock.SystemClock{},
		id.UUID{},
		noteoutadapter.NewVaultNoteStore(cfg.NotesPath()),
		noteIndex,
		noteoutadapter.NewFSWatcher(cfg.NotesPath(), noteoutadapter.DefaultDebounce, logger.Named("watch")),
		logger.Named("note"),
	))

	pipeline := domain.NewPipeline(cfg.Graph.Window)
	host := graphoutadapter.NewWorkerHost(pipeline, graphoutadapter.WorkerOptions{
		Workers: cfg.Graph.Workers,
		Timeout: cfg.Graph.Timeout,
		Logger:  logger.Named("host"),
	})
	mode, err := domain.ParseFingerprintMode(cfg.Graph.Fingerprint)
	if err != nil {
		_ = host.Close()
		_ = noteIndex.Close()
		return nil, fmt.Errorf("parse fingerprint mode: %w", err)
	}
	cache, err := graphservice.NewGraphCache(host, graphservice.CacheOptions{
		Size:   cfg.Graph.CacheSize,
		Mode:   mode,
		Logger: logger.Named("cache"),
	})
	if err != nil {
		_ = host.Close()
		_ = noteIndex.Close()
		return nil, fmt.Errorf("new graph cache: %w", err)
	}
	graphSvc := graphservice.NewGraphService(
		cache,
		graphoutadapter.NewNoteSourceAdapter(noteUC),
		graphoutadapter.NewCSVExporter(),
		graphoutadapter.NewDOTExporter(),
		logger.Named("graph"),
	)

	return &App{
		NoteCLI:  noteinadapter.NewCLIHandler(noteUC),
		GraphCLI: graphinadapter.NewCLIHandler(graphusecase.NewInteractor(graphSvc)),
		Logger:   logger,
		host:     host,
		index:    noteIndex,
		cache:    cache,
	}, nil
}

// Close supersedes pending graph computations, stops the workers and closes
// the note index.
func (a *App) Close() error {
	a.cache.Close()
	err := errors.Join(a.host.Close(), a.index.Close())
	_ = a.Logger.Sync()
	return err
}

// RunTUI runs the terminal explorer. Notes edited on disk while it is open
// are recomputed in the background and the graph view follows along.
func RunTUI(app *App) error {
	model := uiapp.NewModel(app.NoteCLI, app.GraphCLI)
	program := tea.NewProgram(model, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		err := app.GraphCLI.Watch(ctx, func(ev graphdto.RefreshEvent) {
			program.Send(graphview.RefreshedMsg{Event: ev})
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			app.Logger.Warn("note watcher stopped", zap.Error(err))
		}
	}()

	_, err := program.Run()
	return err
}
