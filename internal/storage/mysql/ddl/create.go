// Package ddl renders the generic ddl.TableDef model as MySQL DDL.
package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "socialads/internal/ddl"
	"socialads/internal/storage"
)

// MapType maps a logical column type onto a MySQL column type.
func MapType(c gddl.ColumnDef) string {
	switch c.Type {
	case gddl.TypeSerial:
		return "BIGINT"
	case gddl.TypeInt:
		return "INT"
	case gddl.TypeFloat:
		return "DOUBLE"
	case gddl.TypeBool:
		return "BOOLEAN"
	case gddl.TypeVarchar:
		return fmt.Sprintf("VARCHAR(%d)", c.Size)
	case gddl.TypeTimestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL returns a single CREATE TABLE IF NOT EXISTS statement.
// MySQL refreshes OnUpdateNow columns natively through ON UPDATE, so no
// trigger is needed.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("mysql %w", err)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(QuoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))

		switch {
		case c.Type == gddl.TypeSerial:
			sb.WriteString(" NOT NULL AUTO_INCREMENT PRIMARY KEY")
		case c.PrimaryKey:
			sb.WriteString(" NOT NULL PRIMARY KEY")
		case c.Nullable:
			sb.WriteString(" NULL")
		default:
			sb.WriteString(" NOT NULL")
		}
		if c.Default == gddl.DefaultNow {
			sb.WriteString(" DEFAULT CURRENT_TIMESTAMP(6)")
		}
		if c.OnUpdateNow {
			sb.WriteString(" ON UPDATE CURRENT_TIMESTAMP(6)")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		QuoteFQN(t.FQN),
		strings.Join(cols, ",\n  "),
	), nil
}

// EnsureTable creates def if it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	sql, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	return repo.Exec(ctx, sql)
}

// QuoteIdent quotes an identifier with backticks.
func QuoteIdent(id string) string {
	return "`" + strings.ReplaceAll(id, "`", "``") + "`"
}

// QuoteFQN quotes a possibly database-qualified name like "ads.social_ads".
func QuoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, QuoteIdent(p))
	}
	return strings.Join(out, ".")
}
