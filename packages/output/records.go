package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abdul-hamid-achik/hitdoc/packages/document"
	"github.com/xeipuuv/gojsonschema"
)

// RecordsVersion is the records format written by this package.
const RecordsVersion = 1

//go:embed records.schema.json
var recordsSchema []byte

// Records is the on-disk form of a run.
type Records struct {
	Version  int              `json:"version"`
	Examples []*document.View `json:"examples"`
}

// RecordsError lists the schema violations of a records file.
type RecordsError struct {
	Problems []string
}

func (e *RecordsError) Error() string {
	return fmt.Sprintf("invalid records: %s", strings.Join(e.Problems, "; "))
}

// WriteRecords writes views as indented records JSON.
func WriteRecords(w io.Writer, views []*document.View) error {
	records := Records{Version: RecordsVersion, Examples: views}
	if records.Examples == nil {
		records.Examples = []*document.View{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// WriteRecordsFile writes views to path, replacing any previous file.
func WriteRecordsFile(path string, views []*document.View) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, views); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ValidateRecords checks data against the records schema.
func ValidateRecords(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(recordsSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("validating records: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &RecordsError{Problems: problems}
}

// ReadRecords validates and decodes records.
func ReadRecords(r io.Reader) ([]*document.View, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if err := ValidateRecords(data); err != nil {
		return nil, err
	}

	var records Records
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	if records.Version > RecordsVersion {
		return nil, fmt.Errorf("records version %d is newer than supported version %d", records.Version, RecordsVersion)
	}
	return records.Examples, nil
}

func ReadRecordsFile(path string) ([]*document.View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}
