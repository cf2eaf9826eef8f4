package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/core/config"
	"github.com/abdul-hamid-achik/inttest/packages/fixture"
	"github.com/abdul-hamid-achik/inttest/packages/output"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>...",
	Short: "Re-validate fixtures when they change",
	Long: `Validate fixtures once, then watch the directories and validate again
after every change. Press Ctrl+C to stop.

Examples:
  inttest watch ./packages/integrations/posthog`,
	Args: cobra.MinimumNArgs(1),
	RunE: watchCommand,
}

func watchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watch(ctx, cmd.OutOrStdout(), cfg, args)
}

// watch validates the fixtures under args, then again after each burst of
// fixture writes, until ctx is done.
func watch(ctx context.Context, w io.Writer, cfg *config.Config, args []string) error {
	formatter := output.New(cfg.Output, w, cfg.GetVerbose(), cfg.GetNoColor())

	var mu sync.Mutex
	run := func() {
		mu.Lock()
		defer mu.Unlock()
		files, err := collectFiles(args, cfg.FixturesDir)
		if err != nil {
			formatter.FormatError(err)
			return
		}
		results, duration := loadFiles(files)
		formatter.FormatResults(results, duration)
		fmt.Fprintf(w, "Watching for changes... (press Ctrl+C to stop)\n")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return &exitError{code: ExitUsageError, err: fmt.Errorf("cannot access %s: %w", arg, err)}
		}
		root := arg
		if !info.IsDir() {
			root = filepath.Dir(arg)
		}
		addWatches(watcher, root, watched, formatter.FormatError)
	}

	run()

	debounce := time.Duration(cfg.Debounce) * time.Millisecond
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) {
				continue
			}
			if !fixture.IsFixtureFile(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			name := event.Name
			timer = time.AfterFunc(debounce, func() {
				mu.Lock()
				fmt.Fprintf(w, "\nFile changed: %s\n", name)
				mu.Unlock()
				run()
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			mu.Lock()
			formatter.FormatError(fmt.Errorf("watcher error: %w", err))
			mu.Unlock()
		}
	}
}

// addWatches watches root and every directory below it. Paths that cannot be
// walked or watched are reported and skipped.
func addWatches(watcher *fsnotify.Watcher, root string, watched map[string]bool, report func(error)) {
	// the callback never returns an error, so Walk always completes
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			report(fmt.Errorf("failed to walk %s: %w", path, err))
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() && !watched[path] {
			if err := watcher.Add(path); err != nil {
				report(fmt.Errorf("failed to watch %s: %w", path, err))
			}
			watched[path] = true
		}
		return nil
	})
}
