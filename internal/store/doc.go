// Package store provides credential persistence for the auth service.
//
// The auth core consumes accounts only through the narrow AccountStore
// interface: lookup by ID, email, or phone number, plus create/update for
// the registration and account-management flows. Two implementations
// exist: SQLiteStore (modernc.org/sqlite, WAL mode, schema created on
// open) for real deployments, and MemoryStore for tests and demos.
package store
