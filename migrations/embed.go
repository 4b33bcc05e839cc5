// Package migrations embeds the goose SQL migrations shared by the auth and
// forum services.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
