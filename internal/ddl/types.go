// Package ddl defines a small, backend-agnostic model for table definitions.
//
// Columns carry a logical type; backend packages (internal/storage/<kind>/ddl)
// map it onto their dialect and render CREATE TABLE statements from the same
// TableDef.
package ddl

import (
	"fmt"
	"strings"
)

// Logical column types understood by every backend renderer.
const (
	TypeSerial    = "serial" // auto-assigned integer primary key
	TypeInt       = "int"
	TypeFloat     = "float"
	TypeBool      = "bool"
	TypeVarchar   = "varchar"
	TypeTimestamp = "timestamp"
)

// DefaultNow is the logical default for "current timestamp".
const DefaultNow = "now"

// ColumnDef describes a single column.
//
// Fields:
//   - Name: column name (unquoted; quoting happens at render time)
//   - Type: one of the Type* constants
//   - Size: length for TypeVarchar
//   - Nullable: whether NULL is allowed
//   - PrimaryKey: whether the column is the primary key
//   - Default: "" or DefaultNow
//   - OnUpdateNow: refresh the column to the current time whenever the row
//     is updated
type ColumnDef struct {
	Name        string
	Type        string
	Size        int
	Nullable    bool
	PrimaryKey  bool
	Default     string
	OnUpdateNow bool
}

// Generated reports whether the store assigns the column's value on insert.
func (c ColumnDef) Generated() bool {
	return c.Type == TypeSerial || c.Default == DefaultNow
}

// TableDef holds the table name (optionally schema-qualified, e.g.
// "public.social_ads") and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Name returns the unqualified table name.
func (t TableDef) Name() string {
	if i := strings.LastIndexByte(t.FQN, '.'); i >= 0 {
		return t.FQN[i+1:]
	}
	return t.FQN
}

// InsertColumns lists the columns a loader must supply, in definition order.
func (t TableDef) InsertColumns() []string {
	out := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if !c.Generated() {
			out = append(out, c.Name)
		}
	}
	return out
}

// PrimaryKey returns the primary key column, if any.
func (t TableDef) PrimaryKey() (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.PrimaryKey {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// UpdatedAt returns the first column with OnUpdateNow set, if any.
func (t TableDef) UpdatedAt() (ColumnDef, bool) {
	for _, c := range t.Columns {
		if c.OnUpdateNow {
			return c, true
		}
	}
	return ColumnDef{}, false
}

// Validate checks the definition is renderable.
func (t TableDef) Validate() error {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ddl: at least one column is required")
	}
	pks := 0
	seen := make(map[string]struct{}, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("ddl: duplicate column %s in table %s", name, fqn)
		}
		seen[name] = struct{}{}
		switch c.Type {
		case TypeSerial, TypeInt, TypeFloat, TypeBool, TypeTimestamp:
		case TypeVarchar:
			if c.Size <= 0 {
				return fmt.Errorf("ddl: column %s: varchar needs a positive size", name)
			}
		default:
			return fmt.Errorf("ddl: column %s: unknown type %q", name, c.Type)
		}
		if c.Type == TypeSerial && !c.PrimaryKey {
			return fmt.Errorf("ddl: column %s: serial columns must be the primary key", name)
		}
		if c.PrimaryKey {
			pks++
		}
		if c.OnUpdateNow && c.Type != TypeTimestamp {
			return fmt.Errorf("ddl: column %s: on-update refresh needs a timestamp column", name)
		}
	}
	if pks > 1 {
		return fmt.Errorf("ddl: table %s: composite primary keys are not supported", fqn)
	}
	return nil
}
