// Package ddl renders the generic ddl.TableDef model as SQLite DDL.
package ddl

import (
	"fmt"

	gddl "socialads/internal/ddl"
)

// MapType maps a logical column type onto a SQLite column type. SQLite is
// dynamically typed, so the declared types mainly pick the column affinity:
// bool is stored as INTEGER 0/1 and timestamps as ISO-8601 TEXT.
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.TypeSerial:
		return "INTEGER"
	case gddl.TypeInt:
		return "INTEGER"
	case gddl.TypeFloat:
		return "REAL"
	case gddl.TypeBool:
		return "BOOLEAN"
	case gddl.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case gddl.TypeTimestamp:
		return "DATETIME"
	default:
		return "TEXT"
	}
}

func mapDefault(def string) string {
	if def == gddl.DefaultNow {
		return "CURRENT_TIMESTAMP"
	}
	return ""
}
