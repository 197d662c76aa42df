package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/abdul-hamid-achik/hitdoc/packages/output"
	"github.com/abdul-hamid-achik/hitdoc/packages/proxy"
	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record live traffic as examples through a proxy",
	Long: `Start a reverse proxy in front of a running API and record every exchange.

Exchanges are grouped by method and path. The records file is written when
the proxy stops (Ctrl+C).

Examples:
  hitdoc record --target http://localhost:3000
  hitdoc record --target http://localhost:3000 --port 9090 -o doc/api/live.json
  hitdoc record --target http://localhost:3000 --exclude /health --dedupe`,
	RunE: recordCommand,
}

var (
	recordTargetFlag   string
	recordPortFlag     int
	recordOutputFlag   string
	recordExcludeFlag  string
	recordSanitizeFlag string
	recordDedupeFlag   bool
)

func init() {
	recordCmd.Flags().StringVar(&recordTargetFlag, "target", "", "URL of the API to proxy to")
	recordCmd.Flags().IntVarP(&recordPortFlag, "port", "p", 8080, "Port to listen on")
	recordCmd.Flags().StringVarP(&recordOutputFlag, "output", "o", "", "Records file to write (default from config)")
	recordCmd.Flags().StringVar(&recordExcludeFlag, "exclude", "", "Comma-separated path prefixes not to record")
	recordCmd.Flags().StringVar(&recordSanitizeFlag, "sanitize", "", "Comma-separated headers to redact (replaces the defaults)")
	recordCmd.Flags().BoolVar(&recordDedupeFlag, "dedupe", false, "Keep only the first exchange per method and path")
	_ = recordCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(recordCmd)
}

func recordCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []proxy.Option{
		proxy.WithPort(recordPortFlag),
		proxy.WithVerbose(cfg.GetVerbose()),
		proxy.WithExclude(splitList(recordExcludeFlag)),
		proxy.WithDeduplicate(recordDedupeFlag),
	}
	if recordSanitizeFlag != "" {
		opts = append(opts, proxy.WithSanitize(splitList(recordSanitizeFlag)))
	}
	recorder, err := proxy.NewRecorder(recordTargetFlag, opts...)
	if err != nil {
		return withExitCode(ExitUsageError, err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := recorder.Start(ctx); err != nil {
		return err
	}

	path := recordOutputFlag
	if path == "" {
		path = cfg.RecordsPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	views := recorder.Views()
	if err := output.WriteRecordsFile(path, views); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Recorded %d examples to %s\n", len(views), path)
	return nil
}
