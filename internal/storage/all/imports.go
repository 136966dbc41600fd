// Package all registers every built-in storage backend via blank imports.
// Wiring layers (cmd/salesetl) import it once so storage.New can resolve any
// configured kind.
package all

import (
	_ "salesetl/internal/storage/mssql"
	_ "salesetl/internal/storage/mysql"
	_ "salesetl/internal/storage/postgres"
	_ "salesetl/internal/storage/sqlite"
)
