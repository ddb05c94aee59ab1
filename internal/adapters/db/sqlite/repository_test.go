package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "journal_test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewJournal(db)
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	journal := openTestJournal(t)

	run, err := journal.StartRun(ctx, domain.RunKindRestore, "ITAS")
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	if run.ID == "" {
		t.Fatalf("expected generated run id")
	}
	if run.Outcome != "running" {
		t.Fatalf("expected running outcome, got %q", run.Outcome)
	}

	if err := journal.FinishRun(ctx, run.ID, "completed", 10, 2, 1, 0); err != nil {
		t.Fatalf("finish run: %v", err)
	}

	runs, err := journal.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Outcome != "completed" || got.Created != 10 || got.Reused != 2 || got.Skipped != 1 {
		t.Fatalf("unexpected run row: %+v", got)
	}
	if got.FinishedAt == nil {
		t.Fatalf("expected finished_at to be set")
	}
}

func TestRecordAndListEntities(t *testing.T) {
	ctx := context.Background()
	journal := openTestJournal(t)

	run, err := journal.StartRun(ctx, domain.RunKindRestore, "ITAS")
	if err != nil {
		t.Fatalf("start run: %v", err)
	}
	other, err := journal.StartRun(ctx, domain.RunKindRestore, "HR")
	if err != nil {
		t.Fatalf("start other run: %v", err)
	}

	entries := []domain.RunEntity{
		{RunID: run.ID, Category: domain.CategoryObjectType, Name: "Server", OldID: "12", NewID: "98", Outcome: domain.OutcomeCreated},
		{RunID: run.ID, Category: domain.CategoryObject, Name: "srv-01", OldID: "4001", NewID: "7001", Outcome: domain.OutcomeCreated},
		{RunID: other.ID, Category: domain.CategoryObjectType, Name: "Employee", Outcome: domain.OutcomeFailed, Detail: "api error (400)"},
	}
	for _, e := range entries {
		if err := journal.RecordEntity(ctx, e); err != nil {
			t.Fatalf("record entity: %v", err)
		}
	}

	got, err := journal.ListRunEntities(ctx, run.ID)
	if err != nil {
		t.Fatalf("list entities: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities for first run, got %d", len(got))
	}
	if got[0].Category != domain.CategoryObjectType || got[0].NewID != "98" {
		t.Fatalf("unexpected first entity: %+v", got[0])
	}
	if got[1].Name != "srv-01" {
		t.Fatalf("unexpected second entity: %+v", got[1])
	}
}
