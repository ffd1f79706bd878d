// Package domain defines the core business entities of the vocabulary
// study application: words, per-word scheduling state, daily statistics,
// quiz settings, and users. Entities validate themselves; scheduling
// transitions live in the srs subpackage.
package domain
