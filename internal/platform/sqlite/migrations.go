package sqlite

import "embed"

// MigrationsFS embeds the goose migration files for the sqlite backend.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS

// MigrationsDir is the path of the migrations inside MigrationsFS.
const MigrationsDir = "migrations"
