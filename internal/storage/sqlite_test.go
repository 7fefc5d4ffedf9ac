package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nikniq/nq-candyrush/internal/multiplayer"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "a", "b", "scores.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreSaveRunAndTopScores(t *testing.T) {
	store := openTestStore(t)

	runs := []Run{
		{GameID: "candy", Score: 300, Level: "sweet-start", Moves: 12, BestChain: 2},
		{GameID: "candy", Score: 900, Level: "sour-steps", Moves: 20, BestChain: 4},
		{GameID: "candy", Score: 120, Level: "sweet-start", Moves: 5, BestChain: 1},
		{GameID: "candy_endless", Score: 5000, Moves: 80, BestChain: 6},
	}
	for _, r := range runs {
		if _, err := store.SaveRun(r); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}

	top, err := store.TopScores("candy", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(top))
	}
	if top[0].Score != 900 || top[1].Score != 300 {
		t.Errorf("TopScores order = %d, %d", top[0].Score, top[1].Score)
	}
	if top[0].Level != "sour-steps" || top[0].Moves != 20 || top[0].BestChain != 4 {
		t.Errorf("run fields not persisted: %+v", top[0])
	}

	level, err := store.LevelScores("candy", "sweet-start", 10)
	if err != nil {
		t.Fatalf("LevelScores() failed: %v", err)
	}
	if len(level) != 2 || level[0].Score != 300 {
		t.Errorf("LevelScores = %+v", level)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("candy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("expected 0 for empty game, got %d", high)
	}

	store.SaveScore("candy", 100)
	store.SaveScore("candy", 450)
	store.SaveScore("candy", 200)

	high, _ = store.HighScore("candy")
	if high != 450 {
		t.Errorf("expected high score 450, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("candy", 100)
	store.SaveScore("candy_endless", 300)

	if err := store.ClearScores("candy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if runs, _ := store.AllScores("candy"); len(runs) != 0 {
		t.Errorf("expected no candy runs after clear, got %d", len(runs))
	}
	if runs, _ := store.AllScores("candy_endless"); len(runs) != 1 {
		t.Error("other games must not be affected")
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{GameID: "candy_endless", Score: 100, Moves: 10, BestChain: 2})
	store.SaveRun(Run{GameID: "candy_endless", Score: 300, Moves: 30, BestChain: 5})

	stats, err := store.GetGameStats("candy_endless")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.AvgScore != 200 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.TotalMoves != 40 || stats.BestChain != 5 {
		t.Errorf("move/chain stats = %+v", stats)
	}

	empty, err := store.GetGameStats("nothing")
	if err != nil {
		t.Fatalf("GetGameStats() on empty game failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestStoreOnlineMatches(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveMatchResult(multiplayer.MatchResultData{
		MatchID:        "m-1",
		GameID:         "candy_versus",
		Player1Session: "s1",
		Player2Session: "s2",
		Score1:         400,
		Score2:         250,
		WinnerSession:  "s1",
		EndReason:      "completed",
		DurationSecs:   120,
	})
	if err != nil {
		t.Fatalf("SaveMatchResult() failed: %v", err)
	}
	store.SaveOnlineMatch(OnlineMatchResult{
		MatchID: "m-2", GameID: "candy_versus", Player1Session: "s3", Player2Session: "s4",
		Score1: 100, Score2: 100, EndReason: "completed",
	})

	m, err := store.OnlineMatchByID("m-1")
	if err != nil || m == nil {
		t.Fatalf("OnlineMatchByID() = %v, %v", m, err)
	}
	if m.WinnerSession != "s1" || m.Score1 != 400 || m.Duration != 120 {
		t.Errorf("match = %+v", m)
	}

	missing, err := store.OnlineMatchByID("nope")
	if err != nil || missing != nil {
		t.Errorf("unknown match = %v, %v", missing, err)
	}

	recent, err := store.RecentOnlineMatches(10)
	if err != nil {
		t.Fatalf("RecentOnlineMatches() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].MatchID != "m-2" {
		t.Errorf("recent = %+v", recent)
	}
	if recent[0].WinnerSession != "" {
		t.Error("draw should have no winner")
	}
}
