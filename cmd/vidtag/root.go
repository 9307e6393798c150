package main

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lmercier/vidtag/internal/config"
	"github.com/lmercier/vidtag/internal/library"
	"github.com/lmercier/vidtag/internal/log"
	"github.com/lmercier/vidtag/internal/organize"
	"github.com/lmercier/vidtag/internal/thumbs"
	"github.com/lmercier/vidtag/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

// appContext holds everything a subcommand needs after config load
type appContext struct {
	configFlag string

	cfg    *config.Config
	logger *slog.Logger
}

func (a *appContext) ensure() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(a.configFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)
	a.logger = logger

	return nil
}

// openCache opens the thumbnail index and wraps it in a cache
func (a *appContext) openCache() (*thumbs.Cache, *thumbs.Index, error) {
	index, err := thumbs.OpenIndex(a.cfg.Thumbnails.Dir)
	if err != nil {
		return nil, nil, fmt.Errorf("open thumbnail index: %w", err)
	}
	cache := thumbs.NewCache(index, thumbs.FFmpegExtractor{}, a.cfg.Thumbnails.Dir, a.cfg.Thumbnails.RespectModTime, a.logger)
	return cache, index, nil
}

func newRootCommand() *cobra.Command {
	ctx := &appContext{}

	rootCmd := &cobra.Command{
		Use:           "vidtag",
		Short:         "Tag videos and file them into a tag-derived folder tree",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.ensure()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(ctx)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&ctx.configFlag, "config", "c", "", "Configuration file path")

	rootCmd.AddCommand(newTagsCommand(ctx))
	rootCmd.AddCommand(newOrganizeCommand(ctx))
	rootCmd.AddCommand(newThumbsCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))

	return rootCmd
}

// runTUI wires the services and runs the interactive browser
func runTUI(ctx *appContext) error {
	cfg, logger := ctx.cfg, ctx.logger
	logger.Info("starting vidtag", "version", Version)

	cache, index, err := ctx.openCache()
	if err != nil {
		return err
	}
	defer index.Close()

	org := organize.New(logger)

	watcher, err := library.NewWatcher(cfg.SourceFolders)
	if err != nil {
		logger.Warn("folder watching disabled", "error", err)
		watcher = nil
	}

	model := tui.NewModel(cfg, org, cache, watcher, logger)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
