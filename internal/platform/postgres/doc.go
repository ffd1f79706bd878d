// Package postgres implements the store interfaces on PostgreSQL. This is
// the cloud persistence backend; platform/sqlite provides the local one.
package postgres
