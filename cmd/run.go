package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/app"
	"github.com/abhisek/storyquiz/internal/logging"
)

// appFlags are the TUI options set by the play command.
type appFlags struct {
	play       bool
	topic      string
	paragraphs int
}

// runApp opens the store, builds the story pipeline, and launches the TUI.
func runApp(cmd *cobra.Command, flags appFlags) error {
	ctx := cmd.Context()

	// The TUI owns the terminal, so logs go to a file.
	logger, closeLog, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	if err != nil {
		return fmt.Errorf("set up logging: %w", err)
	}
	defer closeLog()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	eventRepo := st.EventRepo()
	stack, err := buildContent(ctx, cfg, eventRepo, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	paragraphs := flags.paragraphs
	if paragraphs == 0 && flags.topic != "" {
		paragraphs = cfg.Content.Paragraphs
	}

	logger.Info("starting", "source", stack.Label, "pool", stack.Selector.Len())

	return app.Run(app.Options{
		Resolver:       stack.Resolver,
		EventRepo:      eventRepo,
		SnapshotRepo:   st.SnapshotRepo(),
		Topic:          flags.topic,
		ParagraphCount: paragraphs,
		GradeLevel:     cfg.Content.GradeLevel,
		QuestionCount:  cfg.Content.QuestionCount,
		Play:           flags.play,
		SourceLabel:    stack.Label,
		Logger:         logger,
	})
}
