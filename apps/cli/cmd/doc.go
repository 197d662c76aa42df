// Package cmd implements the hitdoc CLI commands using Cobra.
//
// Available commands:
//   - render: Build documentation from the records of a test run
//   - list: Display the documented examples
//   - validate: Check records files against the records schema
//   - init: Create a hitdoc config and an example documentation test
//   - version: Show hitdoc version information
//
// Flags also read HITDOC_* environment variables.
package cmd
