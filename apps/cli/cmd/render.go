package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/core/config"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/output"
	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render [records...]",
	Short: "Render documentation from recorded examples",
	Long: `Render the documented examples of one or more records files.

Without arguments the records file configured by outputDir and recordsFile
is used. Directories are searched for .json records files.

Examples:
  hitdoc render
  hitdoc render doc/api/records.json --format openapi
  hitdoc render doc/api --format html -o public/index.html
  hitdoc render --filter public --exclude internal
  hitdoc render --watch`,
	RunE: renderCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	formatFlag  string
	outputFlag  string
	filterFlag  string
	excludeFlag string
	titleFlag   string
	watchFlag   bool
)

func init() {
	renderCmd.Flags().StringVarP(&formatFlag, "format", "f", getEnvString("HITDOC_FORMAT", ""), "Output format: json, yaml, html, openapi, tap (env: HITDOC_FORMAT)")
	renderCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("HITDOC_OUTPUT", ""), "Output file, - for stdout (default: <outputDir>/index.<ext>) (env: HITDOC_OUTPUT)")
	renderCmd.Flags().StringVar(&filterFlag, "filter", getEnvString("HITDOC_FILTER", ""), "Document only examples with these tags, or all (comma-separated) (env: HITDOC_FILTER)")
	renderCmd.Flags().StringVar(&excludeFlag, "exclude", getEnvString("HITDOC_EXCLUDE", ""), "Skip examples with these tags (comma-separated) (env: HITDOC_EXCLUDE)")
	renderCmd.Flags().StringVar(&titleFlag, "title", "", "Documentation title")
	renderCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Re-render when a records file changes")
}

// renderOptions are the resolved inputs of one render.
type renderOptions struct {
	format  string
	output  string
	title   string
	filters document.Filters
	files   []string
}

func resolveRenderOptions(cfg *config.Config, args []string) (*renderOptions, error) {
	files, err := recordFiles(args, cfg)
	if err != nil {
		return nil, err
	}

	override := &config.Config{
		Format:          formatFlag,
		Title:           titleFlag,
		Filter:          splitList(filterFlag),
		ExclusionFilter: splitList(excludeFlag),
	}
	cfg = cfg.Merge(override)

	opts := &renderOptions{
		format:  cfg.Format,
		output:  outputFlag,
		title:   cfg.Title,
		filters: cfg.Filters(),
		files:   files,
	}
	if opts.format == "" {
		opts.format = config.DefaultFormat
	}
	if opts.output == "" {
		opts.output = filepath.Join(cfg.OutputDir, "index"+output.Extension(opts.format))
	}
	return opts, nil
}

func renderCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	opts, err := resolveRenderOptions(cfg, args)
	if err != nil {
		return err
	}

	if err := render(cmd, cfg, opts); err != nil {
		return err
	}
	if !watchFlag {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return watchRecords(ctx, cmd, opts.files, func() error {
		return render(cmd, cfg, opts)
	})
}

func render(cmd *cobra.Command, cfg *config.Config, opts *renderOptions) error {
	views, err := loadViews(opts.files)
	if err != nil {
		return err
	}
	idx := output.NewIndex(opts.title, cfg.APIVersion, views, opts.filters)

	var w io.Writer = cmd.OutOrStdout()
	if opts.output != "-" {
		if err := os.MkdirAll(filepath.Dir(opts.output), 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("creating %s: %w", opts.output, err)
		}
		defer f.Close()
		w = f
	}

	formatter, err := output.NewFormatter(opts.format, w)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}
	if err := formatter.Format(idx); err != nil {
		return fmt.Errorf("rendering %s: %w", opts.format, err)
	}

	if opts.output != "-" {
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %d examples in %d sections to %s\n",
			green("Rendered"), len(idx.Examples()), len(idx.Sections), opts.output)
	}
	return nil
}

// watchRecords calls fn after writes to any of files until ctx is done.
func watchRecords(ctx context.Context, cmd *cobra.Command, files []string, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	red := color.New(color.FgRed).SprintFunc()
	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s failed to watch %s: %v\n", red("Error:"), dir, err)
			}
			dirs[dir] = true
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "\nWatching for changes... (press Ctrl+C to stop)\n")

	// Debounce timer for rapid file changes
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
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
			abs, _ := filepath.Abs(event.Name)
			if !watched[abs] || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.ErrOrStderr(), "\nFile changed: %s\n", event.Name)
				if err := fn(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s %v\n", red("Error:"), err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s watcher error: %v\n", red("Error:"), err)
		}
	}
}
