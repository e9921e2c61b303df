package report

// Package report holds the incident record type, its token codec, and the
// Store that keeps the ordered in-memory report list in sync with a
// key-value settings backend.
