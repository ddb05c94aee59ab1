package application

import (
	"testing"

	"github.com/Rudy-Tmc/backupAndRestoreAssetsCloud/internal/domain"
)

func TestTableRecordIsAppendOnly(t *testing.T) {
	table := NewTable()

	if got := table.Record(domain.CategoryObject, "100", "200"); got != "200" {
		t.Fatalf("expected first mapping to stick, got %s", got)
	}
	if got := table.Record(domain.CategoryObject, "100", "999"); got != "200" {
		t.Fatalf("expected existing mapping to win, got %s", got)
	}

	newID, ok := table.Lookup(domain.CategoryObject, "100")
	if !ok || newID != "200" {
		t.Fatalf("lookup returned %q %v", newID, ok)
	}
}

func TestTableCategoriesDoNotCollide(t *testing.T) {
	table := NewTable()
	table.Record(domain.CategoryObject, "7", "1001")
	table.Record(domain.CategoryObjectType, "7", "2002")

	if got, _ := table.Lookup(domain.CategoryObject, "7"); got != "1001" {
		t.Fatalf("object mapping clobbered: %s", got)
	}
	if got, _ := table.Lookup(domain.CategoryObjectType, "7"); got != "2002" {
		t.Fatalf("object type mapping clobbered: %s", got)
	}
	if _, ok := table.Lookup(domain.CategoryAttribute, "7"); ok {
		t.Fatalf("unexpected mapping in attribute category")
	}
}

func TestTableMergeKeepsExistingEntries(t *testing.T) {
	table := NewTable()
	table.Record(domain.CategoryObject, "1", "10")
	table.Merge(domain.CategoryObject, map[string]string{"1": "99", "2": "20"})

	if got, _ := table.Lookup(domain.CategoryObject, "1"); got != "10" {
		t.Fatalf("merge overwrote existing entry: %s", got)
	}
	if got, _ := table.Lookup(domain.CategoryObject, "2"); got != "20" {
		t.Fatalf("merge missed new entry: %s", got)
	}
}

func TestTableSnapshotAndReverseLookup(t *testing.T) {
	table := NewTable()
	table.Record(domain.CategoryObjectType, "12", "98")

	snap := table.Snapshot(domain.CategoryObjectType)
	if len(snap) != 1 || snap["12"] != "98" {
		t.Fatalf("unexpected snapshot %v", snap)
	}
	snap["12"] = "tampered"
	if got, _ := table.Lookup(domain.CategoryObjectType, "12"); got != "98" {
		t.Fatalf("snapshot aliased internal state: %s", got)
	}

	oldID, ok := table.ReverseLookup(domain.CategoryObjectType, "98")
	if !ok || oldID != "12" {
		t.Fatalf("reverse lookup returned %q %v", oldID, ok)
	}
	if _, ok := table.ReverseLookup(domain.CategoryObjectType, "404"); ok {
		t.Fatalf("reverse lookup matched a missing id")
	}
}
