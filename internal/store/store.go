// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/cogni/internal/model"
	"github.com/verte-zerg/cogni/internal/progress"

	_ "modernc.org/sqlite" // SQLite driver.
)

const progressKey = "progress"

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store wraps SQLite access for progress data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			key TEXT PRIMARY KEY,
			body TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_results (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			game_name TEXT NOT NULL,
			domain TEXT NOT NULL,
			score INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			difficulty INTEGER NOT NULL,
			completed_at TEXT NOT NULL,
			correct_answers INTEGER NOT NULL,
			total_rounds INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_completed_at ON game_results(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_domain ON game_results(domain);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// LoadDocument returns the stored progress document, or nil when none exists.
func (s *Store) LoadDocument(ctx context.Context) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE key = ?`, progressKey).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// SaveDocument replaces the progress document and archives new results in one transaction.
func (s *Store) SaveDocument(ctx context.Context, changes progress.Changes) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if changes.Reset {
		if _, err = tx.ExecContext(ctx, `DELETE FROM game_results`); err != nil {
			return err
		}
	}

	if len(changes.Appended) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT OR IGNORE INTO game_results (id, game_id, game_name, domain, score, accuracy, difficulty, completed_at, correct_answers, total_rounds)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, r := range changes.Appended {
			if _, err = stmt.ExecContext(ctx,
				r.ID,
				r.GameID,
				r.GameName,
				string(r.Domain),
				r.Score,
				r.Accuracy,
				r.Difficulty,
				r.CompletedAt.UTC().Format(timeLayout),
				r.CorrectAnswers,
				r.TotalRounds,
			); err != nil {
				return err
			}
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO documents (key, body, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		progressKey,
		string(changes.Document),
		time.Now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	err = tx.Commit()
	return err
}

// ListResults returns archived results filtered by cfg, oldest first.
func (s *Store) ListResults(ctx context.Context, cfg model.ReportConfig) ([]model.StoredGameResult, error) {
	clauses, args := reportFilter(cfg)
	query := fmt.Sprintf(`SELECT id, game_id, game_name, domain, score, accuracy, difficulty, completed_at, correct_answers, total_rounds
		FROM game_results
		WHERE %s
		ORDER BY completed_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var results []model.StoredGameResult
	for rows.Next() {
		var r model.StoredGameResult
		var domain, completedAt string
		if err := rows.Scan(&r.ID, &r.GameID, &r.GameName, &domain, &r.Score, &r.Accuracy, &r.Difficulty, &completedAt, &r.CorrectAnswers, &r.TotalRounds); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, completedAt)
		if err != nil {
			return nil, err
		}
		r.Domain = model.Domain(domain)
		r.CompletedAt = parsed.Local()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if cfg.Last > 0 && len(results) > cfg.Last {
		results = results[len(results)-cfg.Last:]
	}
	return results, nil
}

// ListDomainAggregates summarizes archived results per domain.
func (s *Store) ListDomainAggregates(ctx context.Context, cfg model.ReportConfig) ([]model.DomainAggregate, error) {
	clauses, args := reportFilter(cfg)
	query := fmt.Sprintf(`SELECT domain, COUNT(*) AS games, SUM(accuracy) AS accuracy_sum,
		MAX(score) AS best_score, SUM(correct_answers) AS total_correct, MAX(completed_at) AS last_played
		FROM game_results
		WHERE %s
		GROUP BY domain
		ORDER BY domain`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.DomainAggregate
	for rows.Next() {
		var agg model.DomainAggregate
		var domain, last string
		if err := rows.Scan(&domain, &agg.Games, &agg.AccuracySum, &agg.BestScore, &agg.TotalCorrect, &last); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(timeLayout, last)
		if err != nil {
			return nil, err
		}
		agg.Domain = model.Domain(domain)
		agg.LastPlayedAt = parsed.Local()
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func reportFilter(cfg model.ReportConfig) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Domain != "" {
		clauses = append(clauses, "domain = ?")
		args = append(args, string(cfg.Domain))
	}
	if cfg.Since != nil {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, cfg.Since.UTC().Format(timeLayout))
	}
	return clauses, args
}
