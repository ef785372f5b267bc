// Package fileutil provides the file-set collection used by the treekeep
// engines.
//
// Two selection modes feed search/replace: CollectTree gathers every regular
// file under a root in lexicographic path order, and FilterFiles narrows an
// explicit caller-given list to existing regular files while preserving the
// caller's order. Neither performs any matching; they only produce the
// candidate set.
//
// ScanDirectory is the richer selector used by the case converter: it
// filters by extension and doublestar glob, optionally recursing, and skips
// hidden and excluded directories. Output is sorted and deterministic; the
// scan collects non-fatal errors and keeps going.
//
// All functions operate on an afero.Fs so tests can run against an
// in-memory filesystem.
package fileutil
