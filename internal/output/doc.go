// Package output renders workspace query results for the terminal and as JSON,
// and provides the Splog logger used by the CLI.
package output
