// Package migrations holds the numbered schema scripts of the run journal.
package migrations

import "embed"

// FS holds NNN_name.up.sql and NNN_name.down.sql pairs, applied in
// numeric order.
//
//go:embed *.sql
var FS embed.FS
