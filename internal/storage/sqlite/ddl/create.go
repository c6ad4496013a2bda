package ddl

import (
	"fmt"
	"strings"

	gddl "socialads/internal/ddl"
)

// BuildCreateTableSQL returns the statements that create t if it does not
// exist:
//
//	CREATE TABLE IF NOT EXISTS "table" (
//	  "id" INTEGER PRIMARY KEY AUTOINCREMENT,
//	  "col" TYPE [NOT NULL] [DEFAULT expr],
//	  ...
//	);
//
// followed, when t has an OnUpdateNow column, by a CREATE TRIGGER IF NOT
// EXISTS that refreshes it after every update that leaves it unchanged.
func BuildCreateTableSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("sqlite %w", err)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(quoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))

		switch {
		case c.Type == gddl.TypeSerial:
			sb.WriteString(" PRIMARY KEY AUTOINCREMENT")
		case c.PrimaryKey:
			sb.WriteString(" PRIMARY KEY NOT NULL")
		case !c.Nullable:
			sb.WriteString(" NOT NULL")
		}
		if def := mapDefault(c.Default); def != "" {
			sb.WriteString(" DEFAULT ")
			sb.WriteString(def)
		}
		cols = append(cols, sb.String())
	}

	stmts := []string{fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s\n);",
		quoteFQN(t.FQN),
		strings.Join(cols, ",\n  "),
	)}

	upd, ok := t.UpdatedAt()
	pk, hasPK := t.PrimaryKey()
	if ok && hasPK {
		stmts = append(stmts, buildTouchTrigger(t, upd.Name, pk.Name))
	}
	return stmts, nil
}

// buildTouchTrigger renders the updated_at refresh. The WHEN clause skips
// updates that set the column explicitly, which also stops the trigger from
// re-firing on its own UPDATE. Statements inside a trigger body must use the
// unqualified table name.
func buildTouchTrigger(t gddl.TableDef, col, pk string) string {
	name := t.Name()
	trigger := quoteIdent(name + "_touch_" + col)
	if i := strings.LastIndexByte(t.FQN, '.'); i >= 0 {
		trigger = quoteFQN(t.FQN[:i]) + "." + trigger
	}
	return fmt.Sprintf(
		"CREATE TRIGGER IF NOT EXISTS %s\nAFTER UPDATE ON %s FOR EACH ROW\nWHEN NEW.%s IS OLD.%s\nBEGIN\n  UPDATE %s SET %s = CURRENT_TIMESTAMP WHERE %s = NEW.%s;\nEND;",
		trigger,
		quoteIdent(name),
		quoteIdent(col), quoteIdent(col),
		quoteIdent(name), quoteIdent(col), quoteIdent(pk), quoteIdent(pk),
	)
}

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

func quoteFQN(fqn string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}
