// Package loaders provides document loading implementations.
//
// Loaders implement the driven.Loader port: each produces a finite,
// ordered sequence of documents from a configured source. Three
// variants are built in:
//
//   - csv: one document per data row of a CSV file
//   - jsonfile: one document per element of a JSON array or JSONL file
//   - directory: one document per file matching a glob pattern
//
// The Factory allows dynamic construction of loaders from source
// configuration; RegisterDefaults registers all built-in variants.
package loaders
