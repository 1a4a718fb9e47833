// Package migrations embeds the goose migrations for the metadata store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
