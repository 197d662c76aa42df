package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/hitdoc/packages/core/config"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/output"
)

// recordFiles expands args into records files. Directories contribute their
// .json files; no args means the configured records path.
func recordFiles(args []string, cfg *config.Config) ([]string, error) {
	if len(args) == 0 {
		args = []string{cfg.RecordsPath()}
	}

	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, withExitCode(ExitRecordsError, fmt.Errorf("cannot access %s: %w", arg, err))
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		err = filepath.Walk(arg, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() && isRecordsFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, withExitCode(ExitRecordsError, err)
		}
	}

	if len(files) == 0 {
		return nil, withExitCode(ExitRecordsError, fmt.Errorf("no records files found"))
	}
	return files, nil
}

func isRecordsFile(path string) bool {
	return filepath.Ext(path) == ".json" && !isGenerated(path)
}

// isGenerated reports whether path looks like rendered output rather than
// records.
func isGenerated(path string) bool {
	base := filepath.Base(path)
	return base == "index.json" || base == "index.openapi.json"
}

// loadViews reads every file and concatenates the examples in file order.
func loadViews(files []string) ([]*document.View, error) {
	var views []*document.View
	for _, file := range files {
		got, err := output.ReadRecordsFile(file)
		if err != nil {
			return nil, withExitCode(ExitRecordsError, fmt.Errorf("%s: %w", file, err))
		}
		views = append(views, got...)
	}
	return views, nil
}
