package cmd

import (
	"context"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/conneroisu/jsconvert/internal/config"
	"github.com/conneroisu/jsconvert/internal/logging"
	"github.com/conneroisu/jsconvert/internal/pipeline"
	"github.com/conneroisu/jsconvert/internal/watcher"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:     "watch [flags] OUTPUT_FILE",
	Aliases: []string{"w"},
	Short:   "Regenerate the output whenever an input file changes",
	Long: `Run the conversion once, then watch every input file and run it again
after each burst of changes. A failing run is logged and watching continues.
Press Ctrl+C to stop.

Examples:
  jsconvert watch --convert lib/a.js --convert data/list.xml sources.cpp
  jsconvert watch --debounce 1s sources.cpp`,
	Args: validateArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Duration("debounce", config.DefaultDebounce, "quiet period before a change triggers a rebuild")
	bindFlags(watchCmd, map[string]string{"debounce": "watch.debounce"})
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req, err := buildRequest(cfg, args, true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watchAndConvert(ctx, req, cfg.Watch.Debounce, logger, nil)
}

// rebuilder runs conversions one at a time.
type rebuilder struct {
	pipeline *pipeline.Pipeline
	req      pipeline.Request
	logger   logging.Logger
	mu       sync.Mutex
	runs     int
}

func (r *rebuilder) run(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs++
	op := logging.StartOperation(r.logger, "rebuild")
	result, err := r.pipeline.Run(ctx, r.req)
	if err != nil {
		op.EndWithError(ctx, err)
		return err
	}
	op.End(ctx, "run", r.runs, "entries", result.Entries)
	return nil
}

// watchAndConvert converts req, then reconverts on every debounced change
// until ctx is done. ready, when not nil, is closed once watching started.
func watchAndConvert(ctx context.Context, req pipeline.Request, debounce time.Duration, log logging.Logger, ready chan<- struct{}) error {
	r := &rebuilder{pipeline: pipeline.New(log), req: req, logger: log}

	fw, err := watcher.NewFileWatcher(debounce, log)
	if err != nil {
		return err
	}
	defer fw.Stop()

	if err := fw.WatchFiles(req.Inputs()); err != nil {
		return err
	}

	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, event := range events {
			log.Info(ctx, "Input changed", "path", event.Path, "type", event.Type.String())
		}
		return r.run(ctx)
	})

	if err := r.run(ctx); err != nil {
		log.Error(ctx, err, "Initial conversion failed")
	}

	if err := fw.Start(ctx); err != nil {
		return err
	}
	log.Info(ctx, "Watching for changes", "files", len(req.Inputs()), "dirs", len(fw.Dirs()))
	if ready != nil {
		close(ready)
	}

	<-ctx.Done()
	log.Info(context.Background(), "Stopping file watcher")
	return nil
}
