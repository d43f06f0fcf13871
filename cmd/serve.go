package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/storyquiz/internal/config"
	"github.com/abhisek/storyquiz/internal/content"
	"github.com/abhisek/storyquiz/internal/story"
	"github.com/abhisek/storyquiz/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the story worker HTTP API",
	Long: `Serve stories over HTTP for other storyquiz clients (POST /api/story).

Stories come from the configured LLM. When no LLM is configured and
--fallback is set, stories come from the built-in library instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Serve.Addr
		}
		useFallback, _ := cmd.Flags().GetBool("fallback")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := cliLogger()

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		// A worker must never proxy to itself.
		serveCfg := cfg
		serveCfg.Content.WorkerURL = ""
		if serveCfg.Content.Source == config.SourceWorker {
			serveCfg.Content.Source = config.SourceAuto
		}

		stack, err := buildContent(ctx, serveCfg, s.EventRepo(), logger)
		if err != nil {
			return err
		}
		defer stack.Close()

		source := stack.Source
		if source == nil {
			if !useFallback {
				return errors.New("no story source configured: set an LLM API key or pass --fallback")
			}
			selector := stack.Selector
			source = content.SourceFunc(func(_ context.Context, req content.Request) (story.Story, error) {
				return selector.Select(req.ParagraphCount), nil
			})
			logger.Info("serving built-in stories")
		} else {
			logger.Info("serving stories", "source", stack.Label)
		}

		srv := worker.New(source, worker.Options{
			Timeout: cfg.LLM.Timeout,
			Logger:  logger,
		})
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from STORYQUIZ_SERVE_ADDR)")
	serveCmd.Flags().Bool("fallback", false, "Serve built-in stories when no LLM is configured")
}
