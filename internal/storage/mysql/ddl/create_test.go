package ddl

import (
	"context"
	"testing"

	"socialads/internal/schema"
	"socialads/internal/storage"
)

func TestBuildCreateTableSQL_SocialAds(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(schema.SocialAds("ads.social_ads"))
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE IF NOT EXISTS `ads`.`social_ads` (\n" +
		"  `id` BIGINT NOT NULL AUTO_INCREMENT PRIMARY KEY,\n" +
		"  `age` INT NOT NULL,\n" +
		"  `estimated_salary` DOUBLE NOT NULL,\n" +
		"  `purchased` BOOLEAN NOT NULL,\n" +
		"  `age_group` VARCHAR(20) NULL,\n" +
		"  `salary_bracket` VARCHAR(20) NULL,\n" +
		"  `created_at` DATETIME(6) NULL DEFAULT CURRENT_TIMESTAMP(6),\n" +
		"  `updated_at` DATETIME(6) NULL DEFAULT CURRENT_TIMESTAMP(6) ON UPDATE CURRENT_TIMESTAMP(6)\n" +
		");"
	if got != want {
		t.Fatalf("CREATE mismatch\n got:\n%s\nwant:\n%s", got, want)
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()
	if got := QuoteIdent("we`ird"); got != "`we``ird`" {
		t.Fatalf("QuoteIdent = %s", got)
	}
}

type execRepo struct {
	storage.Repository
	sqls []string
}

func (e *execRepo) Exec(_ context.Context, sql string) error {
	e.sqls = append(e.sqls, sql)
	return nil
}

func TestEnsureTable(t *testing.T) {
	t.Parallel()

	var r execRepo
	if err := EnsureTable(context.Background(), &r, schema.SocialAds("")); err != nil {
		t.Fatalf("EnsureTable: %v", err)
	}
	if len(r.sqls) != 1 {
		t.Fatalf("Exec calls = %d, want 1", len(r.sqls))
	}
}
