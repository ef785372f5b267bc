// Package display provides terminal output helpers shared by the treekeep
// subcommands: the per-file progress dots used by sed, yellow warning blocks,
// and TTY detection for deciding when prompts and colors are appropriate.
//
// All functions write to an io.Writer so tests can capture output.
package display
