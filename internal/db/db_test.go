package db

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/rangepick/internal/models"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

// setClock makes AddPick stamp consecutive seconds starting at base.
func setClock(t *testing.T, base time.Time) {
	t.Helper()
	orig := clock
	n := 0
	clock = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Second)
	}
	t.Cleanup(func() { clock = orig })
}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Initialize(t.TempDir())
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()

	db, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer db.Close()

	// Check database file exists
	dbPath := filepath.Join(dir, ".rangepick", "history.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(t.TempDir())
	if !errors.Is(err, ErrNoHistory) {
		t.Errorf("Open: got %v, want ErrNoHistory", err)
	}
}

func TestOpenExisting(t *testing.T) {
	dir := t.TempDir()
	db, err := Initialize(dir)
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	if err := db.AddPick(&models.Pick{Start: date(2024, 3, 1), End: date(2024, 3, 2)}); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}
	db.Close()

	db, err = Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	n, err := db.CountPicks()
	if err != nil {
		t.Fatalf("CountPicks failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountPicks: got %d, want 1", n)
	}
}

func TestAddAndGetPick(t *testing.T) {
	db := newTestDB(t)
	setClock(t, time.Date(2024, 3, 14, 12, 0, 0, 0, time.Local))

	pick := &models.Pick{
		Start:    date(2024, 3, 10),
		End:      date(2024, 3, 16),
		Source:   models.SourcePreset,
		Preset:   "this-week",
		DateTime: false,
	}
	if err := db.AddPick(pick); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}
	if pick.ID == "" {
		t.Fatal("Pick ID not set")
	}
	if pick.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	got, err := db.GetPick(pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if !got.Start.Equal(*pick.Start) || !got.End.Equal(*pick.End) {
		t.Errorf("range mismatch: got %v..%v, want %v..%v", got.Start, got.End, pick.Start, pick.End)
	}
	if got.Source != models.SourcePreset || got.Preset != "this-week" {
		t.Errorf("source mismatch: got %s/%s", got.Source, got.Preset)
	}
	if !got.CreatedAt.Equal(pick.CreatedAt) {
		t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, pick.CreatedAt)
	}

	// Bare hex IDs resolve too.
	if _, err := db.GetPick(pick.ID[len(idPrefix):]); err != nil {
		t.Errorf("GetPick with bare ID failed: %v", err)
	}
	if _, err := db.GetPick("pk-missing"); err == nil {
		t.Error("GetPick should fail for unknown ID")
	}
}

func TestAddPickDefaults(t *testing.T) {
	db := newTestDB(t)

	pick := &models.Pick{Start: date(2024, 3, 10)}
	if err := db.AddPick(pick); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}
	if pick.Source != models.SourcePicker {
		t.Errorf("Source: got %q, want %q", pick.Source, models.SourcePicker)
	}

	got, err := db.GetPick(pick.ID)
	if err != nil {
		t.Fatalf("GetPick failed: %v", err)
	}
	if got.End != nil {
		t.Errorf("End: got %v, want nil", got.End)
	}
}

func TestListPicks(t *testing.T) {
	db := newTestDB(t)
	setClock(t, time.Date(2024, 3, 14, 12, 0, 0, 0, time.Local))

	for i := 1; i <= 5; i++ {
		if err := db.AddPick(&models.Pick{Start: date(2024, 3, i), End: date(2024, 3, i+1)}); err != nil {
			t.Fatalf("AddPick failed: %v", err)
		}
	}

	all, err := db.ListPicks(0)
	if err != nil {
		t.Fatalf("ListPicks failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("ListPicks(0): got %d, want 5", len(all))
	}
	if all[0].Start.Day() != 5 {
		t.Errorf("newest first: got start day %d, want 5", all[0].Start.Day())
	}

	some, err := db.ListPicks(2)
	if err != nil {
		t.Fatalf("ListPicks failed: %v", err)
	}
	if len(some) != 2 {
		t.Errorf("ListPicks(2): got %d, want 2", len(some))
	}
}

func TestLastPick(t *testing.T) {
	db := newTestDB(t)
	setClock(t, time.Date(2024, 3, 14, 12, 0, 0, 0, time.Local))

	last, err := db.LastPick()
	if err != nil {
		t.Fatalf("LastPick failed: %v", err)
	}
	if last != nil {
		t.Fatalf("LastPick on empty db: got %+v, want nil", last)
	}

	if err := db.AddPick(&models.Pick{Start: date(2024, 1, 1), End: date(2024, 1, 31)}); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}
	// Incomplete picks are skipped.
	if err := db.AddPick(&models.Pick{Start: date(2024, 2, 1)}); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}

	last, err = db.LastPick()
	if err != nil {
		t.Fatalf("LastPick failed: %v", err)
	}
	if last == nil || last.Start.Month() != time.January {
		t.Errorf("LastPick: got %+v, want the January range", last)
	}
}

func TestPruneAndClear(t *testing.T) {
	db := newTestDB(t)
	setClock(t, time.Date(2024, 3, 14, 12, 0, 0, 0, time.Local))

	for i := 1; i <= 6; i++ {
		if err := db.AddPick(&models.Pick{Start: date(2024, 4, i), End: date(2024, 4, i)}); err != nil {
			t.Fatalf("AddPick failed: %v", err)
		}
	}

	removed, err := db.PrunePicks(4)
	if err != nil {
		t.Fatalf("PrunePicks failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("PrunePicks removed %d, want 2", removed)
	}
	picks, err := db.ListPicks(0)
	if err != nil {
		t.Fatalf("ListPicks failed: %v", err)
	}
	if len(picks) != 4 || picks[len(picks)-1].Start.Day() != 3 {
		t.Errorf("after prune: %d picks, oldest day %d", len(picks), picks[len(picks)-1].Start.Day())
	}

	removed, err = db.ClearPicks()
	if err != nil {
		t.Fatalf("ClearPicks failed: %v", err)
	}
	if removed != 4 {
		t.Errorf("ClearPicks removed %d, want 4", removed)
	}
	if n, _ := db.CountPicks(); n != 0 {
		t.Errorf("CountPicks after clear: got %d, want 0", n)
	}
}

func TestIDGeneration(t *testing.T) {
	orig := idGenerator
	defer func() { idGenerator = orig }()

	idGenerator = func() (string, error) { return "pk-fixed01", nil }

	db := newTestDB(t)
	pick := &models.Pick{Start: date(2024, 3, 1)}
	if err := db.AddPick(pick); err != nil {
		t.Fatalf("AddPick failed: %v", err)
	}
	if pick.ID != "pk-fixed01" {
		t.Errorf("ID: got %s, want pk-fixed01", pick.ID)
	}

	// Duplicate IDs are rejected by the primary key.
	if err := db.AddPick(&models.Pick{Start: date(2024, 3, 2)}); err == nil {
		t.Error("AddPick with duplicate ID should fail")
	}
}

func TestNormalizePickID(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"abc123":    "pk-abc123",
		"pk-abc123": "pk-abc123",
	}
	for in, want := range tests {
		if got := NormalizePickID(in); got != want {
			t.Errorf("NormalizePickID(%q) = %q, want %q", in, got, want)
		}
	}

	id, err := defaultGenerateID()
	if err != nil {
		t.Fatalf("defaultGenerateID failed: %v", err)
	}
	if len(id) != len(idPrefix)+8 {
		t.Errorf("generated ID %q has wrong length", id)
	}
}
