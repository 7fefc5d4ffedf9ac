package levels

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nikniq/nq-candyrush/internal/match3"
)

func TestBuiltinPack(t *testing.T) {
	all, err := Builtin().LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 builtin levels, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("levels not sorted: %s before %s", all[i-1].ID, all[i].ID)
		}
	}

	cascade, err := Builtin().LoadByID("03-candy-cascade")
	if err != nil {
		t.Fatalf("LoadByID() failed: %v", err)
	}
	if !cascade.HasBoard() {
		t.Fatal("03-candy-cascade should have a literal board")
	}
	g, err := cascade.Grid()
	if err != nil {
		t.Fatalf("Grid() failed: %v", err)
	}
	if !match3.HasMatch(g) {
		t.Error("03-candy-cascade board should start with a pending match")
	}
}

func TestLoaderSkipsInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.yaml", "id: b\nwidth: 5\nsymbols: 4\ntarget: 100\n")
	write("a.yml", "id: a\nname: Alpha\nwidth: 4\nsymbols: 3\ntarget: 50\nmoves: 5\n")
	write("broken.yaml", "id: [unterminated\n")
	write("narrow.yaml", "id: narrow\nwidth: 2\nsymbols: 3\ntarget: 10\n")
	write("notes.txt", "id: ignored\n")

	all, err := NewLoader(dir).LoadAll()
	if err != nil {
		t.Fatalf("LoadAll() failed: %v", err)
	}
	if len(all) != 2 || all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("LoadAll() = %+v", all)
	}
	if all[1].Name != "b" {
		t.Errorf("missing name should default to id, got %q", all[1].Name)
	}

	if _, err := NewLoader(dir).LoadByID("narrow"); err == nil {
		t.Error("invalid level should not be loadable by id")
	}
}

func TestLevelBoardValidation(t *testing.T) {
	tests := []struct {
		name  string
		level Level
	}{
		{"width mismatch", Level{ID: "x", Width: 4, Symbols: 3, Target: 1, Board: []string{"ABC", "BCA", "CAB"}}},
		{"symbol outside alphabet", Level{ID: "x", Width: 3, Symbols: 2, Target: 1, Board: []string{"ABC", "BAB", "ABA"}}},
		{"empty cell", Level{ID: "x", Width: 3, Symbols: 3, Target: 1, Board: []string{"AB.", "BCA", "CAB"}}},
		{"ragged rows", Level{ID: "x", Width: 3, Symbols: 3, Target: 1, Board: []string{"AB", "BCA", "CAB"}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.level.Validate(); !errors.Is(err, ErrInvalidLevel) {
				t.Errorf("Validate() = %v, expected ErrInvalidLevel", err)
			}
		})
	}
}
