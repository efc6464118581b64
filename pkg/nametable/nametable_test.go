package nametable

import (
	"path/filepath"
	"testing"

	"github.com/azybler/roadgraph/pkg/store"
)

func newTable(t *testing.T) *Table {
	t.Helper()
	da := store.NewRAMDataAccess(filepath.Join(t.TempDir(), "names"))
	tbl := New(da)
	if err := tbl.CreateNew(); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	return tbl
}

func TestAddNameDedup(t *testing.T) {
	tbl := newTable(t)

	a := tbl.AddName("Main")
	b := tbl.AddName("Oak")
	if a == b {
		t.Fatalf("Main and Oak got same offset %d", a)
	}
	again := tbl.AddName("Main")
	if again != a {
		t.Fatalf("re-adding Main: got offset %d, want %d", again, a)
	}
	if tbl.nameCount != 2 {
		t.Fatalf("nameCount = %d, want 2", tbl.nameCount)
	}
}

func TestGetNameRoundTrip(t *testing.T) {
	tbl := newTable(t)
	for _, s := range []string{"Main St", "Broadway", "日本語", ""} {
		off := tbl.AddName(s)
		if got := tbl.GetName(off); got != s {
			t.Errorf("GetName(AddName(%q)) = %q", s, got)
		}
	}
}

func TestTableFlushReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names")

	da := store.NewRAMDataAccess(path)
	tbl := New(da)
	if err := tbl.CreateNew(); err != nil {
		t.Fatalf("CreateNew: %v", err)
	}
	off := tbl.AddName("Main St")
	tbl.AddName("Oak Ave")
	if err := tbl.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	da2 := store.NewRAMDataAccess(path)
	tbl2 := New(da2)
	ok, err := tbl2.LoadExisting()
	if err != nil || !ok {
		t.Fatalf("LoadExisting: ok=%v err=%v", ok, err)
	}
	if got := tbl2.GetName(off); got != "Main St" {
		t.Errorf("reloaded GetName = %q, want %q", got, "Main St")
	}
	if tbl2.nameCount != 2 {
		t.Errorf("reloaded nameCount = %d, want 2", tbl2.nameCount)
	}
	third := tbl2.AddName("Main St")
	if third != off {
		t.Errorf("AddName after reload: got offset %d, want %d", third, off)
	}
}
