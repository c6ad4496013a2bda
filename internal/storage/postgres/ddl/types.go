// Package ddl renders the generic ddl.TableDef model as Postgres DDL.
package ddl

import (
	"fmt"

	gddl "socialads/internal/ddl"
)

// MapType maps a logical column type onto a Postgres SQL type.
//
//	serial    -> BIGINT GENERATED BY DEFAULT AS IDENTITY
//	int       -> INTEGER
//	float     -> DOUBLE PRECISION
//	bool      -> BOOLEAN
//	varchar   -> VARCHAR(n)
//	timestamp -> TIMESTAMPTZ
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.TypeSerial:
		return "BIGINT GENERATED BY DEFAULT AS IDENTITY"
	case gddl.TypeInt:
		return "INTEGER"
	case gddl.TypeFloat:
		return "DOUBLE PRECISION"
	case gddl.TypeBool:
		return "BOOLEAN"
	case gddl.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case gddl.TypeTimestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func mapDefault(def string) string {
	if def == gddl.DefaultNow {
		return "now()"
	}
	return ""
}
