package storage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"socialads/internal/ddl"
	"socialads/internal/records"
	"socialads/internal/schema"
)

// registerFakeDDL installs a bootstrapper for kind that records the table it
// was asked to create.
func registerFakeDDL(kind string, seen *[]string) {
	RegisterDDL(kind, func(ctx context.Context, repo Repository, def ddl.TableDef) error {
		*seen = append(*seen, def.FQN)
		return repo.Exec(ctx, "CREATE "+def.FQN)
	})
}

func ads(n int) []records.AdRecord {
	out := make([]records.AdRecord, n)
	for i := range out {
		out[i] = records.AdRecord{Age: 20 + i, EstimatedSalary: 1000 * float64(i+1), Purchased: i%2 == 0,
			AgeGroup: records.AgeGroupOf(20 + i), SalaryBracket: records.SalaryBracketOf(1000 * float64(i+1))}
	}
	return out
}

func TestLoader_LoadsAllRowsAndCloses(t *testing.T) {
	t.Parallel()

	var created []string
	registerFakeDDL("fake-load", &created)
	repo := &fakeRepo{}
	l := &Loader{
		Config: Config{Kind: "fake-load", Table: "social_ads"},
		Open:   func(context.Context, Config) (Repository, error) { return repo, nil },
	}

	n, err := l.Load(context.Background(), ads(3))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if !repo.closed {
		t.Fatalf("repository not closed after success")
	}
	if !reflect.DeepEqual(created, []string{"social_ads"}) {
		t.Fatalf("ddl calls = %v", created)
	}
	if !reflect.DeepEqual(repo.columns, schema.InsertColumns) {
		t.Fatalf("columns = %v, want %v", repo.columns, schema.InsertColumns)
	}
	if repo.rows[0][2] != true || repo.rows[1][2] != false {
		t.Fatalf("purchased not passed as bool: %v", repo.rows)
	}
}

func TestLoader_EmptyInputStillEnsuresTable(t *testing.T) {
	t.Parallel()

	var created []string
	registerFakeDDL("fake-empty", &created)
	repo := &fakeRepo{}
	l := &Loader{
		Config: Config{Kind: "fake-empty"},
		Open:   func(context.Context, Config) (Repository, error) { return repo, nil },
	}
	n, err := l.Load(context.Background(), nil)
	if err != nil || n != 0 {
		t.Fatalf("Load(nil) = %d, %v", n, err)
	}
	if len(created) != 1 || created[0] != schema.TableName {
		t.Fatalf("ddl calls = %v", created)
	}
	if !repo.closed {
		t.Fatalf("repository not closed")
	}
}

// TestLoader_FailureLeavesNothing forces an insert failure part way through
// and checks the count is unchanged and the handle released.
func TestLoader_FailureLeavesNothing(t *testing.T) {
	t.Parallel()

	var created []string
	registerFakeDDL("fake-fail", &created)
	repo := &fakeRepo{failAt: 2}
	var buf bytes.Buffer
	l := &Loader{
		Config: Config{Kind: "fake-fail", Table: "social_ads"},
		Open:   func(context.Context, Config) (Repository, error) { return repo, nil },
		Log:    slog.New(slog.NewTextHandler(&buf, nil)),
	}

	before, _ := repo.Count(context.Background())
	n, err := l.Load(context.Background(), ads(3))
	after, _ := repo.Count(context.Background())

	var le *LoadError
	if !errors.As(err, &le) || le.Op != "insert" {
		t.Fatalf("err = %v, want *LoadError{Op: insert}", err)
	}
	if n != 0 || before != after {
		t.Fatalf("n = %d, count %d -> %d; want no rows", n, before, after)
	}
	if !repo.closed {
		t.Fatalf("repository not closed after failure")
	}
	if !strings.Contains(buf.String(), "load failed") {
		t.Fatalf("failure not logged: %s", buf.String())
	}
}

func TestLoader_OpenAndSchemaErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("connection refused")
	l := &Loader{
		Config: Config{Kind: "fake-open"},
		Open:   func(context.Context, Config) (Repository, error) { return nil, boom },
	}
	_, err := l.Load(context.Background(), ads(1))
	var le *LoadError
	if !errors.As(err, &le) || le.Op != "open" || !errors.Is(err, boom) {
		t.Fatalf("open failure: err = %v", err)
	}

	var created []string
	registerFakeDDL("fake-ddl", &created)
	repo := &fakeRepo{execErr: errors.New("permission denied")}
	l = &Loader{
		Config: Config{Kind: "fake-ddl"},
		Open:   func(context.Context, Config) (Repository, error) { return repo, nil },
	}
	_, err = l.Load(context.Background(), ads(1))
	if !errors.As(err, &le) || le.Op != "ensure schema" {
		t.Fatalf("schema failure: err = %v", err)
	}
	if !repo.closed || len(repo.rows) != 0 {
		t.Fatalf("closed=%v rows=%d after schema failure", repo.closed, len(repo.rows))
	}
}

func TestLoader_UnregisteredDDL(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{}
	l := &Loader{
		Config: Config{Kind: "fake-no-ddl"},
		Open:   func(context.Context, Config) (Repository, error) { return repo, nil },
	}
	_, err := l.Load(context.Background(), ads(1))
	if err == nil || !strings.Contains(err.Error(), "no DDL bootstrapper") {
		t.Fatalf("err = %v", err)
	}
	if !repo.closed {
		t.Fatalf("repository not closed")
	}
}

func TestForEachBatch(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 7)
	var sizes []int
	err := ForEachBatch(context.Background(), rows, 3, func(b [][]any) error {
		sizes = append(sizes, len(b))
		return nil
	})
	if err != nil {
		t.Fatalf("ForEachBatch: %v", err)
	}
	if !reflect.DeepEqual(sizes, []int{3, 3, 1}) {
		t.Fatalf("sizes = %v, want [3 3 1]", sizes)
	}

	if err := ForEachBatch(context.Background(), rows, 0, nil); err == nil {
		t.Fatalf("size 0: error = nil")
	}

	wantErr := errors.New("copy failed")
	calls := 0
	err = ForEachBatch(context.Background(), rows, 2, func([][]any) error {
		calls++
		if calls == 2 {
			return wantErr
		}
		return nil
	})
	if !errors.Is(err, wantErr) || calls != 2 {
		t.Fatalf("err = %v, calls = %d", err, calls)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ForEachBatch(ctx, rows, 2, func([][]any) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Fatalf("cancelled: err = %v", err)
	}
}
