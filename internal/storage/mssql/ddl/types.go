// Package ddl renders the generic ddl.TableDef model as T-SQL.
package ddl

import (
	"fmt"

	gddl "socialads/internal/ddl"
)

// MapType maps a logical column type onto a SQL Server column type.
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.TypeSerial:
		return "BIGINT IDENTITY(1,1)"
	case gddl.TypeInt:
		return "INT"
	case gddl.TypeFloat:
		return "FLOAT"
	case gddl.TypeBool:
		return "BIT"
	case gddl.TypeVarchar:
		return fmt.Sprintf("NVARCHAR(%d)", c.Size)
	case gddl.TypeTimestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}
