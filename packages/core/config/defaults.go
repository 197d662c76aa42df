package config

const (
	// DefaultRecordsFile is the file name example records are written to
	DefaultRecordsFile = "records.json"
	// DefaultFormat is the default index output format
	DefaultFormat = "json"
)

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Host:        "example.org",
		Filter:      []string{"all"},
		RecordsFile: DefaultRecordsFile,
		Format:      DefaultFormat,
		Title:       "API Documentation",
		APIVersion:  "1.0.0",
		Timeout:     30000, // 30 seconds
	}
}
