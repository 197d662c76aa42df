package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitdoc/packages/capture"
	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/abdul-hamid-achik/hitdoc/packages/output"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetFlags() {
	configFlag = ""
	noColorFlag = true
	verboseFlag = false
	formatFlag = ""
	outputFlag = ""
	filterFlag = ""
	excludeFlag = ""
	titleFlag = ""
	watchFlag = false
	forceInit = false
	packageInit = "api"
	coverageOpenAPIFlag = ""
	coverageFormatFlag = "console"
	coverageMinFlag = 0
	recordTargetFlag = ""
	recordOutputFlag = ""
	recordExcludeFlag = ""
	recordSanitizeFlag = ""
	recordDedupeFlag = false
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append(args, "--no-color"))
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeRecords(t *testing.T, dir string) string {
	t.Helper()
	body := "{\n  \"id\": 1\n}"
	views := []*document.View{
		{
			ID:           "1",
			ResourceName: "Orders",
			Description:  "Getting an order",
			Method:       "GET",
			Path:         "/orders/:id",
			Transcripts: []capture.Transcript{{
				Method:             "GET",
				Route:              "/orders/1",
				ResponseStatus:     200,
				ResponseStatusText: "OK",
				ResponseBody:       &body,
				ResponseHeaders:    "Content-Type: application/json",
			}},
			Document: document.FlagTags("public"),
		},
		{
			ID:           "2",
			ResourceName: "Orders",
			Description:  "Internal order stats",
			Document:     document.FlagTags("internal"),
		},
	}
	path := filepath.Join(dir, "records.json")
	require.NoError(t, output.WriteRecordsFile(path, views))
	return path
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	records := writeRecords(t, dir)
	out := filepath.Join(dir, "site", "openapi.json")

	_, stderr, err := execute(t, "render", records, "--format", "openapi", "-o", out, "--title", "Shop")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Rendered 2 examples in 1 sections")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"/orders/{id}"`)
	assert.Contains(t, string(data), `"title": "Shop"`)
}

func TestRenderCommand_StdoutWithFilters(t *testing.T) {
	records := writeRecords(t, t.TempDir())

	stdout, _, err := execute(t, "render", records, "-f", "tap", "-o", "-", "--filter", "public,internal", "--exclude", "internal")
	require.NoError(t, err)
	assert.Equal(t, "TAP version 13\n1..1\nok 1 - Orders: Getting an order\n\n", stdout)
}

func TestRenderCommand_Directory(t *testing.T) {
	dir := t.TempDir()
	writeRecords(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.json"), []byte("{}"), 0644))

	stdout, _, err := execute(t, "render", dir, "-o", "-")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"resource_name": "Orders"`)
}

func TestRenderCommand_UnknownFormat(t *testing.T) {
	records := writeRecords(t, t.TempDir())

	_, _, err := execute(t, "render", records, "-f", "pdf", "-o", "-")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestRenderCommand_MissingRecords(t *testing.T) {
	_, _, err := execute(t, "render", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Equal(t, ExitRecordsError, exitCode(err))
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	records := writeRecords(t, dir)

	stdout, _, err := execute(t, "validate", records)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Valid: "+records)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"examples": "nope"}`), 0644))

	_, stderr, err := execute(t, "validate", bad)
	require.Error(t, err)
	assert.Equal(t, ExitRecordsError, exitCode(err))
	assert.Contains(t, stderr, "Invalid: "+bad)
}

func TestListCommand(t *testing.T) {
	records := writeRecords(t, t.TempDir())

	stdout, _, err := execute(t, "list", records, "-v")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Orders")
	assert.Contains(t, stdout, "GET /orders/:id  Getting an order (1 request)")
	assert.Contains(t, stdout, "GET /orders/1 -> 200 OK")
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hitdoc version dev")
	assert.Contains(t, stdout, "Records format: v1")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	stdout, _, err := execute(t, "init", "--package", "shop")
	require.NoError(t, err)
	assert.Contains(t, stdout, "hitdoc initialized!")

	example, err := os.ReadFile(filepath.Join(dir, "api_docs_test.go"))
	require.NoError(t, err)
	assert.Contains(t, string(example), "package shop_test")

	cfg, err := os.ReadFile(filepath.Join(dir, "hitdoc.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "outputDir: doc/api")

	_, _, err = execute(t, "init")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestCoverageCommand(t *testing.T) {
	dir := t.TempDir()
	records := writeRecords(t, dir)
	doc := filepath.Join(dir, "openapi.yaml")
	require.NoError(t, os.WriteFile(doc, []byte(`openapi: 3.0.3
info:
  title: Shop
  version: "1"
paths:
  /orders:
    post:
      responses:
        "201":
          description: Created
  /orders/{id}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
`), 0644))

	stdout, _, err := execute(t, "coverage", records, "--openapi", doc)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Coverage:          50.0%")
	assert.Contains(t, stdout, "[x] GET /orders/{id}")

	_, _, err = execute(t, "coverage", records, "--openapi", doc, "--min", "80")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, exitCode(err))
}

func TestRecordCommand_InvalidTarget(t *testing.T) {
	_, _, err := execute(t, "record", "--target", "localhost")
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitFailure},
		{"config", withExitCode(ExitConfigError, errors.New("bad")), ExitConfigError},
		{"wrapped", errors.Join(withExitCode(ExitRecordsError, errors.New("bad"))), ExitRecordsError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
	assert.Nil(t, withExitCode(ExitConfigError, nil))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
