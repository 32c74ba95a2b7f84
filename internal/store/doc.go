// Package store persists built index snapshots to SQLite.
//
// A snapshot is one resolved configuration source: a row in snapshots plus
// one row per record, each carrying its export.Record JSON body. Snapshots
// are append-only and content-addressed by SourceHash; writing the same
// source twice returns the existing snapshot.
//
// # Ordering
//
// Every listing query orders by seq (declaration order for records, write
// order for snapshots), never by timestamps:
//
//	ORDER BY seq ASC, record_id COLLATE BINARY ASC
//
// # Signature collisions
//
// Each record row stores its own signature. FindBySignature returns the
// latest-declared part, matching index.Index.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
//   - one open connection
package store
