package store

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/thenoetrevino/kanban/internal/ledger"
	"github.com/thenoetrevino/kanban/internal/models"
	"github.com/thenoetrevino/kanban/internal/testutil"
	"github.com/thenoetrevino/kanban/internal/types"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func testColumns() []models.Column {
	return models.NewColumns([]string{"ToDo", "Doing", "Done"})
}

// buildSampleLedger creates a board with tasks in several columns and a
// removed task, so next_id is ahead of the highest surviving id
func buildSampleLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	clock := testutil.NewDefaultClock()
	l, err := ledger.New(testColumns(), clock.Now)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	steps := []func() error{
		func() error { _, err := l.Add("write docs"); return err },
		func() error { _, err := l.Add("review pull request"); return err },
		func() error { _, err := l.Add("drop me"); return err },
		func() error { return l.Advance(1) },
		func() error { return l.Advance(2) },
		func() error { return l.Advance(2) },
		func() error { return l.Remove(3) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
	}
	return l
}

func assertLedgersEqual(t *testing.T, want, got *ledger.Ledger) {
	t.Helper()

	if want.NextID() != got.NextID() {
		t.Errorf("NextID: want %d, got %d", want.NextID(), got.NextID())
	}

	wantTasks, gotTasks := want.List(), got.List()
	if len(wantTasks) != len(gotTasks) {
		t.Fatalf("Task count: want %d, got %d", len(wantTasks), len(gotTasks))
	}

	for i := range wantTasks {
		w, g := wantTasks[i], gotTasks[i]
		if w.ID != g.ID || w.Name != g.Name || w.ColumnID != g.ColumnID {
			t.Errorf("Task %d: want %+v, got %+v", i, w, g)
			continue
		}
		if len(w.History) != len(g.History) {
			t.Errorf("Task %d history length: want %d, got %d", w.ID, len(w.History), len(g.History))
			continue
		}
		for j := range w.History {
			if w.History[j].ColumnID != g.History[j].ColumnID || !w.History[j].EnteredAt.Equal(g.History[j].EnteredAt) {
				t.Errorf("Task %d history entry %d: want %+v, got %+v", w.ID, j, w.History[j], g.History[j])
			}
		}
	}
}

func writeBoardFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write board file: %v", err)
	}
	return path
}

// ============================================================================
// LOAD / SAVE
// ============================================================================

func TestLoad_MissingFileReturnsEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "board.jsonl")

	l, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if l.Len() != 0 {
		t.Errorf("Expected empty ledger, got %d tasks", l.Len())
	}
	if l.NextID() != 1 {
		t.Errorf("Expected next id 1, got %d", l.NextID())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Load must not create the board file")
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	original := buildSampleLedger(t)

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertLedgersEqual(t, original, loaded)
}

func TestSaveLoad_RoundTripUnicodeNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	original, err := ledger.New(testColumns(), nil)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	if _, err := original.Add("caf\xe9"); !errors.Is(err, ledger.ErrInvalidInput) {
		t.Fatalf("Expected invalid UTF-8 name to be rejected, got %v", err)
	}
	for _, name := range []string{"café", "日本語のタスク", "ship it 🚀", `quote " and \ backslash`} {
		if _, err := original.Add(name); err != nil {
			t.Fatalf("Add(%q) failed: %v", name, err)
		}
	}

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertLedgersEqual(t, original, loaded)
}

func TestLoad_LastTaskID(t *testing.T) {
	content := `{"kind":"board","version":1,"next_id":` + strconv.Itoa(math.MaxInt) + `,"columns":["ToDo","Doing","Done"]}` + "\n"
	path := writeBoardFile(t, content)

	l, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := l.Add("overflow"); !errors.Is(err, ledger.ErrIDsExhausted) {
		t.Fatalf("Expected ErrIDsExhausted, got %v", err)
	}

	if err := Save(l, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	reloaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Board became unreadable after save: %v", err)
	}
	if reloaded.NextID() != math.MaxInt {
		t.Errorf("Expected next id %d, got %d", math.MaxInt, reloaded.NextID())
	}
}

func TestSaveLoad_RoundTripEmptyLedger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	original, err := ledger.New(testColumns(), nil)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertLedgersEqual(t, original, loaded)
}

func TestSaveLoad_PreservesSubSecondTimestamps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	clock := testutil.NewFakeClock(testutil.DefaultStart.Add(123456789), 1500*time.Microsecond)
	original, err := ledger.New(testColumns(), clock.Now)
	if err != nil {
		t.Fatalf("Failed to create ledger: %v", err)
	}
	id, _ := original.Add("precise")
	if err := original.Advance(id); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertLedgersEqual(t, original, loaded)
}

func TestSaveLoad_IDsContinueAfterReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	original := buildSampleLedger(t)
	if err := Save(original, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	id, err := loaded.Add("after reload")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if id != 4 {
		t.Errorf("Expected id 4 (3 was removed before saving), got %d", id)
	}
}

func TestSaveLoad_LoadedLedgerKeepsWorking(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.jsonl")
	if err := Save(buildSampleLedger(t), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := loaded.Advance(2); !errors.Is(err, ledger.ErrTerminalColumn) {
		t.Errorf("Expected task 2 to still be terminal, got %v", err)
	}
	if err := loaded.Advance(1); err != nil {
		t.Errorf("Advance failed: %v", err)
	}
	if n := loaded.ClearDone(); n != 2 {
		t.Errorf("Expected 2 cleared tasks, got %d", n)
	}
}

func TestSave_GoldenFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, buildSampleLedger(t)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "board", buf.Bytes())
}

func TestLoad_GoldenFile(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "board.golden"))
	if err != nil {
		t.Fatalf("Failed to open golden file: %v", err)
	}
	defer f.Close()

	l, err := Decode(f, "board.golden", testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertLedgersEqual(t, buildSampleLedger(t), l)
}

func TestSave_ReplacesPreviousFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.jsonl")

	first := buildSampleLedger(t)
	if err := Save(first, path); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	first.ClearDone()
	if err := Save(first, path); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}

	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Len() != 1 {
		t.Errorf("Expected 1 task after second save, got %d", loaded.Len())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, entry := range entries {
		if strings.Contains(entry.Name(), ".tmp.") {
			t.Errorf("Temp file left behind: %s", entry.Name())
		}
	}
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "board.jsonl")
	if err := Save(buildSampleLedger(t), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected board file to exist: %v", err)
	}
}

func TestLoad_IgnoresStaleTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "board.jsonl")
	if err := Save(buildSampleLedger(t), path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// A crash between creating the temp file and renaming it leaves a partial file
	stale := filepath.Join(dir, "board.jsonl.tmp.123")
	if err := os.WriteFile(stale, []byte(`{"kind":"bo`), 0o644); err != nil {
		t.Fatalf("Failed to write stale temp file: %v", err)
	}

	loaded, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertLedgersEqual(t, buildSampleLedger(t), loaded)
}

func TestBoardStore_LoadSave(t *testing.T) {
	clock := testutil.NewDefaultClock()
	s := New(filepath.Join(t.TempDir(), "board.jsonl"), testColumns(), clock.Now)

	l, err := s.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	id, err := l.Add("task")
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := s.Save(l); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := s.Load()
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	task, err := reloaded.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !task.CreatedAt().Equal(testutil.DefaultStart) {
		t.Errorf("Expected creation time %v, got %v", testutil.DefaultStart, task.CreatedAt())
	}
}

// ============================================================================
// CORRUPTION
// ============================================================================

const validHeader = `{"kind":"board","version":1,"next_id":5,"columns":["ToDo","Doing","Done"]}`

func TestLoad_CorruptFiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"only blank lines", "\n\n"},
		{"not json", "hello world\n"},
		{"truncated header", `{"kind":"board","version":1,`},
		{"task before header", `{"kind":"task","id":1,"name":"a","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"header missing next_id", `{"kind":"board","version":1,"columns":["ToDo"]}`},
		{"header with zero next_id", `{"kind":"board","version":1,"next_id":0,"columns":["ToDo"]}`},
		{"future version", `{"kind":"board","version":99,"next_id":1,"columns":["ToDo"]}`},
		{"second header", validHeader + "\n" + validHeader},
		{"unknown kind", validHeader + "\n" + `{"kind":"epic","id":1}`},
		{"missing name", validHeader + "\n" + `{"kind":"task","id":1,"column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"blank name", validHeader + "\n" + `{"kind":"task","id":1,"name":"   ","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"string id", validHeader + "\n" + `{"kind":"task","id":"1","name":"a","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"empty history", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"ToDo","history":[]}`},
		{"bad timestamp", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"ToDo","history":[{"column":"ToDo","at":"yesterday"}]}`},
		{"unknown column", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"Backlog","history":[{"column":"Backlog","at":"2024-03-22T10:00:00Z"}]}`},
		{"unknown history column", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"Doing","history":[{"column":"Icebox","at":"2024-03-22T10:00:00Z"},{"column":"Doing","at":"2024-03-22T10:01:00Z"}]}`},
		{"column differs from history", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"Done","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"backward history", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"ToDo","history":[{"column":"Done","at":"2024-03-22T10:00:00Z"},{"column":"ToDo","at":"2024-03-22T11:00:00Z"}]}`},
		{"history starts in terminal column", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"Done","history":[{"column":"Done","at":"2024-03-22T10:00:00Z"}]}`},
		{"decreasing timestamps", validHeader + "\n" + `{"kind":"task","id":1,"name":"a","column":"Doing","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"},{"column":"Doing","at":"2024-03-22T09:00:00Z"}]}`},
		{"id not below next_id", validHeader + "\n" + `{"kind":"task","id":5,"name":"a","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
		{"duplicate id", validHeader + "\n" +
			`{"kind":"task","id":1,"name":"a","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}` + "\n" +
			`{"kind":"task","id":1,"name":"b","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeBoardFile(t, tt.content)

			l, err := Load(path, testColumns(), nil)
			if err == nil {
				t.Fatalf("Expected an error, got ledger with %d tasks", l.Len())
			}
			if !errors.Is(err, ErrCorruptStore) {
				t.Errorf("Expected ErrCorruptStore, got %v", err)
			}
			var corruptErr *CorruptError
			if !errors.As(err, &corruptErr) {
				t.Errorf("Expected *CorruptError, got %T", err)
			} else if corruptErr.Path != path {
				t.Errorf("Expected path %q in error, got %q", path, corruptErr.Path)
			}

			data, readErr := os.ReadFile(path)
			if readErr != nil {
				t.Fatalf("Failed to read board file: %v", readErr)
			}
			if string(data) != tt.content {
				t.Error("Load modified a corrupt board file")
			}
		})
	}
}

func TestLoad_CorruptErrorReportsLine(t *testing.T) {
	content := validHeader + "\n" +
		`{"kind":"task","id":1,"name":"a","column":"ToDo","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}` + "\n" +
		`{"kind":"task","id":2,"name":"b"` + "\n"
	path := writeBoardFile(t, content)

	_, err := Load(path, testColumns(), nil)
	var corruptErr *CorruptError
	if !errors.As(err, &corruptErr) {
		t.Fatalf("Expected *CorruptError, got %v", err)
	}
	if corruptErr.Line != 3 {
		t.Errorf("Expected line 3, got %d", corruptErr.Line)
	}
}

func TestLoad_InvariantViolationWrapsLedgerError(t *testing.T) {
	content := validHeader + "\n" +
		`{"kind":"task","id":1,"name":"a","column":"Done","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"}]}`
	path := writeBoardFile(t, content)

	_, err := Load(path, testColumns(), nil)
	if !errors.Is(err, ErrCorruptStore) {
		t.Errorf("Expected ErrCorruptStore, got %v", err)
	}
	if !errors.Is(err, ledger.ErrInvalidState) {
		t.Errorf("Expected the ledger invariant error to be preserved, got %v", err)
	}
}

func TestLoad_ForwardCompatibleFields(t *testing.T) {
	content := `{"kind":"board","version":1,"next_id":3,"columns":["ToDo","Doing","Done"],"title":"home"}` + "\n" +
		`{"kind":"task","id":2,"name":"a","column":"Doing","priority":"high","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z","note":"created"},{"column":"Doing","at":"2024-03-22T11:30:00+01:00"}]}` + "\n"
	path := writeBoardFile(t, content)

	l, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	task, err := l.Get(types.TaskID(2))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if task.ColumnID != 1 || len(task.History) != 2 {
		t.Errorf("Unexpected task: %+v", task)
	}
	if l.NextID() != 3 {
		t.Errorf("Expected next id 3, got %d", l.NextID())
	}
}

func TestLoad_ColumnsResolvedByName(t *testing.T) {
	// The board was saved with an extra column that is no longer configured,
	// but no task references it
	content := `{"kind":"board","version":1,"next_id":2,"columns":["ToDo","Review","Done"]}` + "\n" +
		`{"kind":"task","id":1,"name":"a","column":"Done","history":[{"column":"ToDo","at":"2024-03-22T10:00:00Z"},{"column":"Done","at":"2024-03-22T11:00:00Z"}]}` + "\n"
	path := writeBoardFile(t, content)

	l, err := Load(path, testColumns(), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	task, _ := l.Get(1)
	if task.ColumnID != 2 {
		t.Errorf("Expected task resolved into 'Done' (2), got column %d", task.ColumnID)
	}
}
