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

	stmts, err := BuildCreateTableSQL(schema.SocialAds("public.social_ads"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want table + trigger block", len(stmts))
	}

	want := `CREATE TABLE IF NOT EXISTS "public"."social_ads" (
  "id" BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
  "age" INTEGER NOT NULL,
  "estimated_salary" DOUBLE PRECISION NOT NULL,
  "purchased" BOOLEAN NOT NULL,
  "age_group" VARCHAR(20),
  "salary_bracket" VARCHAR(20),
  "created_at" TIMESTAMPTZ DEFAULT now(),
  "updated_at" TIMESTAMPTZ DEFAULT now()
);`
	if stmts[0] != want {
		t.Fatalf("CREATE TABLE mismatch\n got:\n%s\nwant:\n%s", stmts[0], want)
	}
	blk := stmts[1]
	for _, w := range []string{
		"DO $ensure$\nBEGIN\n",
		`IF to_regprocedure('"public"."social_ads_touch_updated_at"()') IS NULL THEN`,
		`CREATE FUNCTION "public"."social_ads_touch_updated_at"() RETURNS trigger LANGUAGE plpgsql AS $fn$`,
		`IF NEW."updated_at" IS NOT DISTINCT FROM OLD."updated_at" THEN`,
		`IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgrelid = to_regclass('"public"."social_ads"') AND tgname = 'social_ads_touch_updated_at') THEN`,
		`CREATE TRIGGER "social_ads_touch_updated_at" BEFORE UPDATE ON "public"."social_ads" FOR EACH ROW EXECUTE FUNCTION "public"."social_ads_touch_updated_at"();`,
		"END;\n$ensure$;",
	} {
		if !strings.Contains(blk, w) {
			t.Errorf("trigger block missing %q:\n%s", w, blk)
		}
	}
	for _, s := range stmts {
		up := strings.ToUpper(s)
		if strings.Contains(up, "DROP ") || strings.Contains(up, "ALTER TABLE") || strings.Contains(up, "OR REPLACE") {
			t.Fatalf("bootstrap must not alter, replace or drop:\n%s", s)
		}
	}
}

func TestBuildCreateTableSQL_EscapesQuotesInLiterals(t *testing.T) {
	t.Parallel()

	stmts, err := BuildCreateTableSQL(schema.SocialAds("o'brien"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.Contains(stmts[1], `to_regclass('"o''brien"')`) || !strings.Contains(stmts[1], `tgname = 'o''brien_touch_updated_at'`) {
		t.Fatalf("literal not escaped:\n%s", stmts[1])
	}
	if !strings.Contains(stmts[1], `ON "o'brien" FOR EACH ROW`) {
		t.Fatalf("identifier should not be literal-escaped:\n%s", stmts[1])
	}
}

func TestMapType(t *testing.T) {
	t.Parallel()

	cases := []struct {
		col  gddl.ColumnDef
		want string
	}{
		{gddl.ColumnDef{Type: gddl.TypeInt}, "INTEGER"},
		{gddl.ColumnDef{Type: gddl.TypeFloat}, "DOUBLE PRECISION"},
		{gddl.ColumnDef{Type: gddl.TypeBool}, "BOOLEAN"},
		{gddl.ColumnDef{Type: gddl.TypeVarchar, Size: 7}, "VARCHAR(7)"},
		{gddl.ColumnDef{Type: gddl.TypeTimestamp}, "TIMESTAMPTZ"},
		{gddl.ColumnDef{Type: "other"}, "TEXT"},
	}
	for _, c := range cases {
		if got := MapType(c.col); got != c.want {
			t.Errorf("MapType(%q) = %q, want %q", c.col.Type, got, c.want)
		}
	}
}

func TestQuoteIdentEscapes(t *testing.T) {
	t.Parallel()

	if got := quoteIdent(`we"ird`); got != `"we""ird"` {
		t.Fatalf("quoteIdent = %s", got)
	}
	if got := quoteFQN("a..b"); got != `"a"."b"` {
		t.Fatalf("quoteFQN = %s", got)
	}
}

type fakeRepository struct {
	storage.Repository
	sqls []string
	err  error
}

func (f *fakeRepository) Exec(ctx context.Context, sql string) error {
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
		t.Fatalf("Exec called %d times, want 2", len(repo.sqls))
	}

	boom := errors.New("permission denied for schema public")
	bad := fakeRepository{err: boom}
	if err := EnsureTable(context.Background(), &bad, schema.SocialAds("")); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	if _, err := BuildCreateTableSQL(gddl.TableDef{}); err == nil {
		t.Fatalf("empty def: error = nil")
	}
}
