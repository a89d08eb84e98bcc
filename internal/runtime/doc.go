// Package runtime provides the execution context for but-workspace commands.
//
// It encapsulates the shared dependencies commands need: the workspace
// service, the logger, the repository paths and the repository configuration.
package runtime
