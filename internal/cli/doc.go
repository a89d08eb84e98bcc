// Package cli wires the but-workspace commands into cobra.
package cli
