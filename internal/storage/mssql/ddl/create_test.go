package ddl

import (
	"context"
	"errors"
	"strings"
	"testing"

	gddl "socialads/internal/ddl"
	"socialads/internal/schema"
	"socialads/internal/storage"
)

func TestBuildCreateTableSQL_SocialAds(t *testing.T) {
	t.Parallel()

	stmts, err := BuildCreateTableSQL(schema.SocialAds("dbo.social_ads"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d batches, want 2", len(stmts))
	}

	want := "IF OBJECT_ID(N'[dbo].[social_ads]', N'U') IS NULL\nBEGIN\n  CREATE TABLE [dbo].[social_ads] (\n" +
		"    [id] BIGINT IDENTITY(1,1) NOT NULL PRIMARY KEY,\n" +
		"    [age] INT NOT NULL,\n" +
		"    [estimated_salary] FLOAT NOT NULL,\n" +
		"    [purchased] BIT NOT NULL,\n" +
		"    [age_group] NVARCHAR(20) NULL,\n" +
		"    [salary_bracket] NVARCHAR(20) NULL,\n" +
		"    [created_at] DATETIME2 NULL DEFAULT SYSUTCDATETIME(),\n" +
		"    [updated_at] DATETIME2 NULL DEFAULT SYSUTCDATETIME()\n" +
		"  );\nEND;"
	if stmts[0] != want {
		t.Fatalf("CREATE mismatch\n got:\n%s\nwant:\n%s", stmts[0], want)
	}

	trg := stmts[1]
	for _, w := range []string{
		"IF OBJECT_ID(N'[dbo].[social_ads_touch_updated_at]', N'TR') IS NULL",
		"EXEC(N'CREATE TRIGGER [dbo].[social_ads_touch_updated_at] ON [dbo].[social_ads] AFTER UPDATE AS",
		"IF UPDATE([updated_at]) RETURN;",
		"ON t.[id] = i.[id]",
	} {
		if !strings.Contains(trg, w) {
			t.Errorf("trigger batch missing %q:\n%s", w, trg)
		}
	}
}

func TestBuildCreateTableSQL_EscapesQuotesInLiterals(t *testing.T) {
	t.Parallel()

	stmts, err := BuildCreateTableSQL(schema.SocialAds("o'brien"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.HasPrefix(stmts[0], "IF OBJECT_ID(N'[o''brien]', N'U')") {
		t.Fatalf("literal not escaped:\n%s", stmts[0])
	}
	if !strings.Contains(stmts[0], "CREATE TABLE [o'brien]") {
		t.Fatalf("identifier should not be literal-escaped:\n%s", stmts[0])
	}
}

func TestQuoting(t *testing.T) {
	t.Parallel()

	if got := quoteIdent("weird]id"); got != "[weird]]id]" {
		t.Fatalf("quoteIdent = %s", got)
	}
	if got := QuoteFQN("dbo. social_ads"); got != "[dbo].[social_ads]" {
		t.Fatalf("QuoteFQN = %s", got)
	}
}

type fakeRepository struct {
	storage.Repository
	sqls []string
	err  error
}

func (f *fakeRepository) Exec(_ context.Context, sql string) error {
	f.sqls = append(f.sqls, sql)
	return f.err
}

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	var repo fakeRepository
	if err := EnsureTable(context.Background(), &repo, schema.SocialAds("")); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(repo.sqls) != 2 {
		t.Fatalf("Exec calls = %d, want 2", len(repo.sqls))
	}

	boom := errors.New("CREATE TABLE permission denied")
	bad := fakeRepository{err: boom}
	if err := EnsureTable(context.Background(), &bad, schema.SocialAds("")); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if _, err := BuildCreateTableSQL(gddl.TableDef{FQN: "x"}); err == nil {
		t.Fatalf("no columns: error = nil")
	}
}
