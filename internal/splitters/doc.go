// Package splitters provides text splitting implementations.
//
// Splitters implement the driven.Splitter port: a pure mapping from one
// text blob to an ordered sequence of pieces under a size or structure
// constraint. Three variants are built in:
//
//   - recursive: bounded-length chunks cut on separator candidates
//   - markdown: chunks bounded by heading markers, with heading-path metadata
//   - token: bounded-length chunks measured in sub-word tokens
//
// The Registry allows dynamic construction of splitters from generic
// configuration maps; RegisterDefaults registers all built-in variants.
package splitters
