package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/danghoangnhan/vidscribe/internal/config"
	"github.com/danghoangnhan/vidscribe/internal/domain"
	"github.com/danghoangnhan/vidscribe/internal/export"
	"github.com/danghoangnhan/vidscribe/internal/factory"
	"github.com/danghoangnhan/vidscribe/internal/logger"
	"github.com/danghoangnhan/vidscribe/internal/scheduler"
	"github.com/danghoangnhan/vidscribe/internal/usecase"
	"github.com/danghoangnhan/vidscribe/internal/watcher"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to the configuration file")
		source     = flag.String("source", "", "video URL or local file to process")
		batch      = flag.String("batch", "", "comma-separated sources or a directory to process")
		language   = flag.String("lang", "auto", "transcription language")
		summary    = flag.Bool("summary", false, "generate a summary after transcription")
		force      = flag.Bool("force", false, "reprocess even when a cached result exists")
		watch      = flag.Bool("watch", false, "watch the schedule input directory for new files")
		schedule   = flag.Bool("schedule", false, "run the configured cron schedule")
	)
	flag.Parse()

	if err := run(*configPath, *source, *batch, *language, *summary, *force, *watch, *schedule); err != nil {
		fmt.Fprintf(os.Stderr, "vidscribe: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, source, batch, language string, summary, force, watch, schedule bool) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Logging.Level)

	if err := os.MkdirAll(cfg.Paths.Output, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := factory.New(cfg, log)
	defer f.Close()

	deps, err := f.CreateAll()
	if err != nil {
		return err
	}

	var exporter export.Exporter
	if cfg.Export.Docx {
		exporter = export.NewDocx(log)
	}
	proc := usecase.New(cfg, deps.Downloader, deps.Extractor, deps.Storage, deps.Selector, exporter, log)

	switch {
	case source != "":
		return runSingle(ctx, proc, log, source, language, summary, force)
	case batch != "":
		return runBatch(ctx, proc, log, batch, language, summary, force)
	case watch || schedule:
		return runDaemon(ctx, cfg, proc, log, language, summary, watch, schedule)
	default:
		return fmt.Errorf("nothing to do: pass -source, -batch, -watch or -schedule")
	}
}

func runSingle(ctx context.Context, proc usecase.Processor, log logger.Logger, source, language string, summary, force bool) error {
	req, err := domain.NewProcessRequest(source, language, summary, force)
	if err != nil {
		return err
	}

	resp, err := proc.Process(ctx, req)
	if err != nil {
		return err
	}

	if resp.WasCached {
		log.Info(ctx, "served from cache in %s", resp.Elapsed.Round(time.Millisecond))
	}
	if resp.SummaryErr != "" {
		log.Warn(ctx, "summary unavailable: %s", resp.SummaryErr)
	}
	fmt.Println(resp.Video.Transcription)
	if resp.Video.Summary != "" {
		fmt.Println("\n--- Summary ---")
		fmt.Println(resp.Video.Summary)
	}
	return nil
}

func runBatch(ctx context.Context, proc usecase.Processor, log logger.Logger, batch, language string, summary, force bool) error {
	var sources []string
	for _, s := range strings.Split(batch, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sources = append(sources, s)
		}
	}

	report, err := proc.ProcessBatch(ctx, sources, usecase.BatchOptions{
		Language:        language,
		GenerateSummary: summary,
		ForceReprocess:  force,
	})
	if err != nil {
		return err
	}

	log.Info(ctx, "batch finished: %d succeeded, %d failed", len(report.Succeeded), len(report.Failed))
	for _, failure := range report.Failed {
		log.Error(ctx, "  %s: %v", failure.Source, failure.Err)
	}
	if len(report.Failed) > 0 {
		return fmt.Errorf("%d of %d sources failed", len(report.Failed), len(report.Failed)+len(report.Succeeded))
	}
	return nil
}

// runDaemon keeps the process alive running watch mode, the cron
// schedule, or both, until SIGINT/SIGTERM.
func runDaemon(ctx context.Context, cfg *config.Config, proc usecase.Processor, log logger.Logger, language string, summary, watch, schedule bool) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := usecase.BatchOptions{Language: language, GenerateSummary: summary}
	inputDir := cfg.Schedule.InputDir
	if inputDir == "" {
		return fmt.Errorf("schedule.input_dir must be set for watch or scheduled mode")
	}
	if err := os.MkdirAll(inputDir, 0o755); err != nil {
		return fmt.Errorf("create input directory: %w", err)
	}

	errChan := make(chan error, 1)

	if watch {
		handler := func(ctx context.Context, path string) error {
			req, err := domain.NewProcessRequest(path, language, summary, false)
			if err != nil {
				return err
			}
			_, err = proc.Process(ctx, req)
			return err
		}
		w, err := watcher.New(inputDir, handler, log, cfg.Batch.MaxConcurrent)
		if err != nil {
			return err
		}
		defer w.Stop()

		go func() {
			if err := w.Start(ctx); err != nil && err != context.Canceled {
				errChan <- err
			}
		}()
	}

	if schedule {
		if cfg.Schedule.Cron == "" {
			return fmt.Errorf("schedule.cron must be set for scheduled mode")
		}
		s, err := scheduler.New(cfg.Schedule.Cron, inputDir, proc, opts, log)
		if err != nil {
			return err
		}
		s.Start()
		defer s.Stop()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	log.Info(ctx, "ready, monitoring %s (press Ctrl+C to stop)", inputDir)
	select {
	case <-sigChan:
		log.Info(ctx, "shutdown signal received")
	case err := <-errChan:
		return err
	}
	cancel()
	return nil
}
