package cmd

import (
	"github.com/abdul-hamid-achik/hitdoc/packages/output"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [records...]",
	Short: "List the documented examples",
	Long: `List the examples that would be documented, grouped by resource.

Examples:
  hitdoc list
  hitdoc list doc/api/records.json -v`,
	RunE: listCommand,
}

func listCommand(cmd *cobra.Command, args []string) error {
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

	idx := output.NewIndex(cfg.Title, cfg.APIVersion, views, cfg.Filters())
	formatter := output.NewConsoleFormatter(
		output.WithWriter(cmd.OutOrStdout()),
		output.WithVerbose(cfg.GetVerbose()),
		output.WithNoColor(cfg.GetNoColor()),
	)
	return formatter.Format(idx)
}
