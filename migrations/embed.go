// Package migrations embeds the versioned SQL schema so binaries can migrate
// without shipping the directory.
package migrations

import "embed"

// FS holds every *.up.sql and *.down.sql file in this directory
//
//go:embed *.sql
var FS embed.FS
