// Package sqlite provides the durable marker store backed by SQLite via
// the pure-Go modernc.org/sqlite driver. The database is opened in WAL
// mode and schema changes are applied through embedded, versioned
// migrations.
package sqlite
