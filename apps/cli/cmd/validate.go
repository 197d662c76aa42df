package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/hitdoc/packages/output"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [records...]",
	Short: "Validate records files against the records schema",
	Long: `Validate records files without rendering them.

Examples:
  hitdoc validate
  hitdoc validate doc/api/records.json
  hitdoc validate ./doc/`,
	RunE: validateCommand,
}

func validateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	files, err := recordFiles(args, cfg)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	hasErrors := false
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err == nil {
			err = output.ValidateRecords(data)
		}
		if err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", green("Valid:"), file)
			continue
		}

		hasErrors = true
		var recordsErr *output.RecordsError
		if errors.As(err, &recordsErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s\n", red("Invalid:"), file)
			for _, problem := range recordsErr.Problems {
				fmt.Fprintf(cmd.ErrOrStderr(), "  - %s\n", problem)
			}
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", red("Error in"), file, err)
	}

	if hasErrors {
		return withExitCode(ExitRecordsError, fmt.Errorf("validation failed"))
	}
	return nil
}
