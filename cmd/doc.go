// Package cmd implements the command-line interface for seqstore, an
// append-only paginated sequence store. It provides a hierarchical command
// structure with operations for running the server and interacting with it
// as a client.
//
// The package is organized into several subpackages:
//
//   - list: Commands for list operations (create, append, get-page, retrieve)
//   - serve: Commands for starting and configuring the seqstore server
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See seqstore -help for a list of all commands.
package cmd
