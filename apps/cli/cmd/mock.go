package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abdul-hamid-achik/hitdoc/packages/mock"
	"github.com/spf13/cobra"
)

var mockCmd = &cobra.Command{
	Use:   "mock [records...]",
	Short: "Serve recorded examples as a mock API",
	Long: `Start an HTTP server that replays the responses captured in records files.

Each method and path is answered with the first response recorded for it.
Path tokens such as :id match any value.

Examples:
  hitdoc mock
  hitdoc mock doc/api/records.json --port 8080
  hitdoc mock --delay 200ms -v`,
	RunE: mockCommand,
}

var (
	mockPortFlag  int
	mockDelayFlag time.Duration
)

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 3000, "Port to listen on")
	mockCmd.Flags().DurationVar(&mockDelayFlag, "delay", 0, "Delay added to every response")
	rootCmd.AddCommand(mockCmd)
}

func mockCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := recordFiles(args, cfg)
	if err != nil {
		return err
	}
	views, err := loadViews(files)
	if err != nil {
		return err
	}

	server := mock.NewServer(
		mock.WithPort(mockPortFlag),
		mock.WithDelay(mockDelayFlag),
		mock.WithVerbose(cfg.GetVerbose()),
	)
	server.LoadViews(views)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Start(ctx)
}
