package ddl

import (
	"context"
	"fmt"
	"strings"

	gddl "socialads/internal/ddl"
	"socialads/internal/storage"
)

// BuildCreateTableSQL returns T-SQL batches that create t if it does not
// exist. T-SQL has no CREATE TABLE IF NOT EXISTS, so the table is guarded by
// an OBJECT_ID check:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NULL
//	BEGIN
//	  CREATE TABLE [schema].[table] (...);
//	END;
//
// When t has an OnUpdateNow column a second batch creates an AFTER UPDATE
// trigger through EXEC, because CREATE TRIGGER must start its own batch.
func BuildCreateTableSQL(t gddl.TableDef) ([]string, error) {
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("mssql %w", err)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		var sb strings.Builder
		sb.WriteString(quoteIdent(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(MapType(c))

		switch {
		case c.PrimaryKey:
			sb.WriteString(" NOT NULL PRIMARY KEY")
		case c.Nullable:
			sb.WriteString(" NULL")
		default:
			sb.WriteString(" NOT NULL")
		}
		if c.Default == gddl.DefaultNow {
			sb.WriteString(" DEFAULT SYSUTCDATETIME()")
		}
		cols = append(cols, sb.String())
	}

	fqn := quoteFQN(t.FQN)
	stmts := []string{fmt.Sprintf(
		"IF OBJECT_ID(N'%s', N'U') IS NULL\nBEGIN\n  CREATE TABLE %s (\n    %s\n  );\nEND;",
		escapeLiteral(fqn),
		fqn,
		strings.Join(cols, ",\n    "),
	)}

	upd, ok := t.UpdatedAt()
	pk, hasPK := t.PrimaryKey()
	if ok && hasPK {
		trigger := quoteIdent(t.Name() + "_touch_" + upd.Name)
		if i := strings.LastIndexByte(t.FQN, '.'); i >= 0 {
			trigger = quoteFQN(t.FQN[:i]) + "." + trigger
		}
		body := fmt.Sprintf(
			"CREATE TRIGGER %s ON %s AFTER UPDATE AS\nBEGIN\n  SET NOCOUNT ON;\n  IF UPDATE(%s) RETURN;\n  UPDATE t SET %s = SYSUTCDATETIME()\n  FROM %s AS t INNER JOIN inserted AS i ON t.%s = i.%s;\nEND",
			trigger, fqn,
			quoteIdent(upd.Name), quoteIdent(upd.Name),
			fqn, quoteIdent(pk.Name), quoteIdent(pk.Name),
		)
		stmts = append(stmts, fmt.Sprintf(
			"IF OBJECT_ID(N'%s', N'TR') IS NULL\n  EXEC(N'%s');",
			escapeLiteral(trigger), escapeLiteral(body),
		))
	}
	return stmts, nil
}

// EnsureTable creates the target SQL Server table and its refresh trigger if
// they do not already exist. It is idempotent.
func EnsureTable(ctx context.Context, repo storage.Repository, def gddl.TableDef) error {
	stmts, err := BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// quoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func quoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// QuoteFQN quotes a possibly schema-qualified table name, e.g.:
//
//	"dbo.social_ads" -> [dbo].[social_ads]
//	"social_ads"     -> [social_ads]
func QuoteFQN(fqn string) string { return quoteFQN(fqn) }

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

func escapeLiteral(s string) string { return strings.ReplaceAll(s, "'", "''") }
