package ddl

import (
	"context"

	gddl "socialads/internal/ddl"
	"socialads/internal/storage"
)

// EnsureTable creates def and its refresh trigger if they do not exist. It is
// idempotent.
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
