package migrations

import "embed"

// Files holds the SQL migrations for the entity store, named NNN_description.sql
// and applied in lexical order.
//
//go:embed *.sql
var Files embed.FS
