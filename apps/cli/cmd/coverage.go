package cmd

import (
	"fmt"

	"github.com/abdul-hamid-achik/hitdoc/packages/coverage"
	"github.com/spf13/cobra"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage [records...]",
	Short: "Report which OpenAPI endpoints have recorded examples",
	Long: `Compare the requests captured in records files against an OpenAPI document.

Examples:
  hitdoc coverage --openapi openapi.yaml
  hitdoc coverage --openapi openapi.yaml --format json
  hitdoc coverage --openapi openapi.yaml --min 80`,
	RunE: coverageCommand,
}

var (
	coverageOpenAPIFlag   string
	coverageFormatFlag string
	coverageMinFlag    float64
)

func init() {
	coverageCmd.Flags().StringVar(&coverageOpenAPIFlag, "openapi", "", "OpenAPI document (YAML or JSON)")
	coverageCmd.Flags().StringVarP(&coverageFormatFlag, "format", "f", "console", "Output format (console, json)")
	coverageCmd.Flags().Float64Var(&coverageMinFlag, "min", 0, "Fail when coverage is below this percentage")
	_ = coverageCmd.MarkFlagRequired("openapi")
	rootCmd.AddCommand(coverageCmd)
}

func coverageCommand(cmd *cobra.Command, args []string) error {
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

	analyzer := coverage.NewAnalyzer()
	if err := analyzer.LoadOpenAPI(coverageOpenAPIFlag); err != nil {
		return withExitCode(ExitUsageError, err)
	}
	report := analyzer.Analyze(coverage.RequestsFromViews(views))

	switch coverageFormatFlag {
	case "console":
		fmt.Fprint(cmd.OutOrStdout(), report.FormatConsole())
	case "json":
		data, err := report.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), data)
	default:
		return withExitCode(ExitUsageError, fmt.Errorf("unknown coverage format %q", coverageFormatFlag))
	}

	if report.CoveragePercent < coverageMinFlag {
		return withExitCode(ExitFailure, fmt.Errorf("coverage %.1f%% is below %.1f%%", report.CoveragePercent, coverageMinFlag))
	}
	return nil
}
