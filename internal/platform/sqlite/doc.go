// Package sqlite implements the store interfaces on SQLite via the pure-Go
// modernc.org/sqlite driver. This is the local persistence backend;
// platform/postgres provides the cloud one. Both satisfy the same
// interfaces, so services never see which backend is active.
package sqlite
