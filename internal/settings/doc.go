package settings

// Package settings provides the key-value stores the report list persists
// into: a durable SQLite-backed store with embedded schema migrations, and
// an in-process store for tests and ephemeral runs.
