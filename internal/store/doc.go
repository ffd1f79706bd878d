// Package store defines the persistence contracts consumed by the
// services. Two backends implement them: platform/postgres (cloud) and
// platform/sqlite (local). Services depend only on these interfaces,
// never on either backend's query language.
package store
