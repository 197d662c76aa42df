package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/core/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	forceInit   bool
	packageInit string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hitdoc in the current directory",
	Long: `Initialize hitdoc in the current directory.

This creates:
  - hitdoc.yaml          - Configuration file
  - api_docs_test.go     - Example documentation test

Examples:
  hitdoc init
  hitdoc init --package server --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite existing files")
	initCmd.Flags().StringVar(&packageInit, "package", "api", "Package name of the example test")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, "hitdoc.yaml")
	exampleFile := filepath.Join(cwd, "api_docs_test.go")

	if !forceInit {
		for _, f := range []string{configFile, exampleFile} {
			if _, err := os.Stat(f); err == nil {
				return withExitCode(ExitUsageError, fmt.Errorf("file already exists: %s (use --force to overwrite)", f))
			}
		}
	}

	cfg := config.DefaultConfig()
	cfg.OutputDir = filepath.Join("doc", "api")
	cfg.Headers = map[string]string{"Accept": "application/json"}

	configYAML, err := yaml.Marshal(cfg)
	if err != nil {
		return withExitCode(ExitConfigError, err)
	}
	if err := os.WriteFile(configFile, configYAML, 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", configFile)

	example := strings.ReplaceAll(exampleTest, "{{package}}", packageInit)
	if err := os.WriteFile(exampleFile, []byte(example), 0644); err != nil {
		return fmt.Errorf("failed to create example file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", exampleFile)

	fmt.Fprintf(cmd.OutOrStdout(), "\nhitdoc initialized!\n")
	fmt.Fprintf(cmd.OutOrStdout(), "Run 'go test ./...' to record examples, then 'hitdoc render' to build the docs.\n")

	return nil
}

const exampleTest = `package {{package}}_test

import (
	"net/http"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/core/config"
	"github.com/abdul-hamid-achik/hitdoc/packages/dsl"
	"github.com/stretchr/testify/assert"
)

func TestAPIDocs(t *testing.T) {
	cfg, err := config.FindAndLoadConfig(".")
	if err != nil {
		t.Fatal(err)
	}
	cfg.App = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{\"status\":\"ok\"}"))
	})

	suite := dsl.NewSuite(cfg)
	suite.Resource("Health", func(g *dsl.Group) {
		g.Get("/health", func(g *dsl.Group) {
			g.ExampleRequest("Checking the API is up", nil, func(e *dsl.Example) {
				assert.Equal(e.T(), http.StatusOK, e.Status())
			})
		})
	})
	suite.Run(t)
}
`
