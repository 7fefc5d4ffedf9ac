// Package storage persists Candy Rush runs and versus results in SQLite
// through the pure-Go modernc.org/sqlite driver.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikniq/nq-candyrush/internal/multiplayer"
)

// Store wraps the database handle.
type Store struct {
	db *sql.DB
}

// Run is one finished game.
type Run struct {
	ID        int64
	GameID    string
	Score     int
	Level     string // campaign level id, empty for endless
	Moves     int
	BestChain int
	CreatedAt time.Time
}

// OnlineMatchResult is a finished versus match.
type OnlineMatchResult struct {
	ID             int64
	MatchID        string
	GameID         string
	Player1Session string
	Player2Session string
	Score1         int
	Score2         int
	WinnerSession  string // empty on a draw
	EndReason      string // "completed", "disconnect", "cancelled"
	Duration       int    // seconds
	CreatedAt      time.Time
}

// GameStats aggregates the runs of one game.
type GameStats struct {
	GameID     string
	GamesCount int
	HighScore  int
	AvgScore   float64
	TotalMoves int
	BestChain  int
	LastPlayed time.Time
}

const schema = `
	CREATE TABLE IF NOT EXISTS scores (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		game_id TEXT NOT NULL,
		score INTEGER NOT NULL,
		level TEXT NOT NULL DEFAULT '',
		moves INTEGER NOT NULL DEFAULT 0,
		best_chain INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(game_id, score DESC);
	CREATE INDEX IF NOT EXISTS idx_scores_level ON scores(game_id, level, score DESC);

	CREATE TABLE IF NOT EXISTS online_matches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL UNIQUE,
		game_id TEXT NOT NULL,
		player1_session TEXT NOT NULL,
		player2_session TEXT NOT NULL,
		score1 INTEGER NOT NULL DEFAULT 0,
		score2 INTEGER NOT NULL DEFAULT 0,
		winner_session TEXT,
		end_reason TEXT NOT NULL,
		duration_secs INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_online_matches_players ON online_matches(player1_session, player2_session);
`

// Open opens (creating if needed) the database at dbPath. A leading "~"
// is expanded to the home directory and missing parent directories are
// created.
func Open(dbPath string) (*Store, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveScore records a bare score.
func (s *Store) SaveScore(gameID string, score int) (int64, error) {
	return s.SaveRun(Run{GameID: gameID, Score: score})
}

// SaveRun records a finished run and returns its id.
func (s *Store) SaveRun(r Run) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO scores (game_id, score, level, moves, best_chain) VALUES (?, ?, ?, ?, ?)`,
		r.GameID, r.Score, r.Level, r.Moves, r.BestChain,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: inserted id: %w", err)
	}
	return id, nil
}

// TopScores returns the best limit runs of a game, highest first.
// A non-positive limit means 10.
func (s *Store) TopScores(gameID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, game_id, score, level, moves, best_chain, created_at
		 FROM scores WHERE game_id = ?
		 ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, limit,
	)
}

// LevelScores returns the best runs on one campaign level.
func (s *Store) LevelScores(gameID, level string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryRuns(
		`SELECT id, game_id, score, level, moves, best_chain, created_at
		 FROM scores WHERE game_id = ? AND level = ?
		 ORDER BY score DESC, id ASC LIMIT ?`,
		gameID, level, limit,
	)
}

// AllScores returns every run of a game, highest first.
func (s *Store) AllScores(gameID string) ([]Run, error) {
	return s.queryRuns(
		`SELECT id, game_id, score, level, moves, best_chain, created_at
		 FROM scores WHERE game_id = ?
		 ORDER BY score DESC, id ASC`,
		gameID,
	)
}

func (s *Store) queryRuns(query string, args ...any) ([]Run, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: query scores: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt any
		if err := rows.Scan(&r.ID, &r.GameID, &r.Score, &r.Level, &r.Moves, &r.BestChain, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: scan score: %w", err)
		}
		r.CreatedAt = parseTimestamp(createdAt)
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate scores: %w", err)
	}
	return runs, nil
}

// HighScore returns the best score of a game, 0 when none exists.
func (s *Store) HighScore(gameID string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(`SELECT MAX(score) FROM scores WHERE game_id = ?`, gameID).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: query high score: %w", err)
	}
	return int(score.Int64), nil
}

// ClearScores deletes every run of a game.
func (s *Store) ClearScores(gameID string) error {
	if _, err := s.db.Exec(`DELETE FROM scores WHERE game_id = ?`, gameID); err != nil {
		return fmt.Errorf("storage: clear scores: %w", err)
	}
	return nil
}

// GetGameStats aggregates the runs of a game.
func (s *Store) GetGameStats(gameID string) (*GameStats, error) {
	stats := &GameStats{GameID: gameID}
	var lastPlayed any
	err := s.db.QueryRow(
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(moves), 0), COALESCE(MAX(best_chain), 0), MAX(created_at)
		 FROM scores WHERE game_id = ?`,
		gameID,
	).Scan(&stats.GamesCount, &stats.HighScore, &stats.AvgScore, &stats.TotalMoves, &stats.BestChain, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: game stats: %w", err)
	}
	stats.LastPlayed = parseTimestamp(lastPlayed)
	return stats, nil
}

// SaveOnlineMatch records a versus result.
func (s *Store) SaveOnlineMatch(m OnlineMatchResult) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO online_matches
		 (match_id, game_id, player1_session, player2_session, score1, score2, winner_session, end_reason, duration_secs)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.MatchID, m.GameID, m.Player1Session, m.Player2Session,
		m.Score1, m.Score2, nullIfEmpty(m.WinnerSession), m.EndReason, m.Duration,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: save online match: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: inserted id: %w", err)
	}
	return id, nil
}

const matchColumns = `id, match_id, game_id, player1_session, player2_session,
	score1, score2, winner_session, end_reason, duration_secs, created_at`

// OnlineMatchByID returns the match with the given id, nil when unknown.
func (s *Store) OnlineMatchByID(matchID string) (*OnlineMatchResult, error) {
	m, err := scanMatch(s.db.QueryRow(`SELECT `+matchColumns+` FROM online_matches WHERE match_id = ?`, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: query online match: %w", err)
	}
	return &m, nil
}

// RecentOnlineMatches returns the latest versus results, newest first.
func (s *Store) RecentOnlineMatches(limit int) ([]OnlineMatchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`SELECT `+matchColumns+` FROM online_matches ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("storage: query online matches: %w", err)
	}
	defer rows.Close()

	var out []OnlineMatchResult
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: scan online match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate online matches: %w", err)
	}
	return out, nil
}

// SaveMatchResult implements multiplayer.MatchResultSaver.
func (s *Store) SaveMatchResult(data multiplayer.MatchResultData) error {
	_, err := s.SaveOnlineMatch(OnlineMatchResult{
		MatchID:        data.MatchID,
		GameID:         data.GameID,
		Player1Session: data.Player1Session,
		Player2Session: data.Player2Session,
		Score1:         data.Score1,
		Score2:         data.Score2,
		WinnerSession:  data.WinnerSession,
		EndReason:      data.EndReason,
		Duration:       data.DurationSecs,
	})
	return err
}

var _ multiplayer.MatchResultSaver = (*Store)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(row rowScanner) (OnlineMatchResult, error) {
	var m OnlineMatchResult
	var winner sql.NullString
	var createdAt any
	err := row.Scan(
		&m.ID, &m.MatchID, &m.GameID, &m.Player1Session, &m.Player2Session,
		&m.Score1, &m.Score2, &winner, &m.EndReason, &m.Duration, &createdAt,
	)
	if err != nil {
		return m, err
	}
	m.WinnerSession = winner.String
	m.CreatedAt = parseTimestamp(createdAt)
	return m, nil
}

// parseTimestamp accepts the DATETIME forms the driver may return.
func parseTimestamp(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		for _, layout := range []string{time.DateTime, time.RFC3339Nano} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed
			}
		}
	}
	return time.Time{}
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
