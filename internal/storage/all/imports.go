// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) causes the init functions of each concrete storage backend to run,
// which in turn register their factories and DDL bootstrappers with the
// storage package.
//
// Importing this package makes the following storage kinds available:
//
//   - "sqlite"   (socialads/internal/storage/sqlite)
//   - "postgres" (socialads/internal/storage/postgres)
//   - "mysql"    (socialads/internal/storage/mysql)
//   - "mssql"    (socialads/internal/storage/mssql)
//
// Typical usage (in cmd/socialads/main.go):
//
//	import _ "socialads/internal/storage/all" // enable all built-in backends
//
// A binary that needs only a subset of backends can import those packages
// directly instead.
package all

import (
	_ "socialads/internal/storage/mssql"
	_ "socialads/internal/storage/mysql"
	_ "socialads/internal/storage/postgres"
	_ "socialads/internal/storage/sqlite"
)
