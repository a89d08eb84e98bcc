// Package config manages per-repository configuration of the workspace queries.
//
// It handles:
//   - Locating the GitButler state directory
//   - Walk and matching options of the commit classifier
//   - Concurrency and log file settings
package config
