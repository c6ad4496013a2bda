package ddl

import (
	"fmt"
	"strings"

	gddl "socialads/internal/ddl"
)

// BuildCreateTableSQL builds the Postgres statements for t:
//
//   - CREATE TABLE IF NOT EXISTS with the primary key inline.
//   - When t has an OnUpdateNow column, a DO block that creates a plpgsql
//     function and a BEFORE UPDATE trigger setting it to now() unless the
//     update sets it explicitly. Each object is created only when absent, so
//     existing ones are never replaced.
//
// Identifiers are double-quoted; embedded double-quotes are escaped.
func BuildCreateTableSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("postgres %w", err)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(quoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))

		switch {
		case c.PrimaryKey:
			sb.WriteString(" PRIMARY KEY")
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

	if upd, ok := t.UpdatedAt(); ok {
		fn := t.Name() + "_touch_" + upd.Name
		fnFQN := quoteIdent(fn)
		if i := strings.LastIndexByte(t.FQN, '.'); i >= 0 {
			fnFQN = quoteFQN(t.FQN[:i]) + "." + fnFQN
		}
		col := quoteIdent(upd.Name)
		tbl := quoteFQN(t.FQN)
		stmts = append(stmts, fmt.Sprintf(
			"DO $ensure$\nBEGIN\n"+
				"  IF to_regprocedure('%s()') IS NULL THEN\n"+
				"    CREATE FUNCTION %s() RETURNS trigger LANGUAGE plpgsql AS $fn$\n"+
				"    BEGIN\n      IF NEW.%s IS NOT DISTINCT FROM OLD.%s THEN\n        NEW.%s := now();\n      END IF;\n      RETURN NEW;\n    END;\n    $fn$;\n"+
				"  END IF;\n"+
				"  IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgrelid = to_regclass('%s') AND tgname = '%s') THEN\n"+
				"    CREATE TRIGGER %s BEFORE UPDATE ON %s FOR EACH ROW EXECUTE FUNCTION %s();\n"+
				"  END IF;\n"+
				"END;\n$ensure$;",
			escapeLiteral(fnFQN), fnFQN,
			col, col, col,
			escapeLiteral(tbl), escapeLiteral(fn),
			quoteIdent(fn), tbl, fnFQN,
		))
	}
	return stmts, nil
}

// quoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	quoteIdent(`age`)        => `"age"`
//	quoteIdent(`weird"name`) => `"weird""name"`
func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}

// quoteFQN quotes a possibly schema-qualified name like "public.social_ads"
// to `"public"."social_ads"`. Empty segments are ignored.
func quoteFQN(f string) string {
	parts := strings.Split(f, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, quoteIdent(p))
	}
	return strings.Join(out, ".")
}

func escapeLiteral(s string) string { return strings.ReplaceAll(s, "'", "''") }
