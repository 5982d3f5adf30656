package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keytutor/internal/achievement"
	"github.com/verte-zerg/keytutor/internal/config"
	"github.com/verte-zerg/keytutor/internal/lesson"
	"github.com/verte-zerg/keytutor/internal/logging"
	"github.com/verte-zerg/keytutor/internal/progress"
	"github.com/verte-zerg/keytutor/internal/store"
)

// app holds the resources shared by commands that touch saved progress.
type app struct {
	store   *store.Store
	service *progress.Service
	checker *achievement.Checker
	lessons *lesson.Catalog
	logger  *slog.Logger
	logFile io.Closer
}

func openApp(cmd *cobra.Command, logCfg config.LogConfig) (*app, error) {
	applyStringConfig(cmd, "log-level", &logLevel, logCfg.Level)
	logPath := config.DefaultLogPath()
	if logCfg.File != nil && *logCfg.File != "" {
		logPath = *logCfg.File
	}
	logger, logFile, err := logging.OpenFile(logPath, logLevel)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		logger, logFile = logging.Discard(), nil
	}

	defs, err := achievement.DefaultDefinitions()
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("failed to load achievements: %w", err)
	}
	lessons, err := lesson.Default()
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("failed to load lessons: %w", err)
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		closeLog(logFile)
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger.Debug("database opened", "path", storePath)

	checker := achievement.NewChecker(defs)
	return &app{
		store:   st,
		service: progress.NewService(st, st, checker, lessons, progress.WithLogger(logger)),
		checker: checker,
		lessons: lessons,
		logger:  logger,
		logFile: logFile,
	}, nil
}

func (a *app) Close() {
	if cerr := a.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	closeLog(a.logFile)
}

func closeLog(c io.Closer) {
	if c == nil {
		return
	}
	if cerr := c.Close(); cerr != nil {
		// Best-effort close of the log file.
		_ = cerr
	}
}
