// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Loader: Produces documents from a configured source
//   - Splitter: Splits one text blob into ordered pieces
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChunkStore: Document and chunk persistence. Without it, results
//     are printed but not stored.
//   - WatchingLoader: Real-time change events. Only loaders over live
//     sources (directories) implement it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, loader, or splitter package
package driven
