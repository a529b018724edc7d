package ladder

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ProgressRepository persists how many rungs have been confirmed sold per
// ticker. Progress only ever moves forward, one rung at a time, capped at
// the rung count.
type ProgressRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewProgressRepository(db *sql.DB, log zerolog.Logger) *ProgressRepository {
	return &ProgressRepository{
		db:  db,
		log: log.With().Str("repo", "ladder_progress").Logger(),
	}
}

// All returns confirmed rung counts keyed by uppercase ticker.
func (r *ProgressRepository) All() (map[string]int, error) {
	rows, err := r.db.Query("SELECT ticker, levels_done FROM ladder_progress")
	if err != nil {
		return nil, fmt.Errorf("failed to query ladder progress: %w", err)
	}
	defer rows.Close()

	progress := make(map[string]int)
	for rows.Next() {
		var ticker string
		var done int
		if err := rows.Scan(&ticker, &done); err != nil {
			return nil, fmt.Errorf("failed to scan ladder progress: %w", err)
		}
		progress[ticker] = done
	}
	return progress, rows.Err()
}

// MarkDone advances a ticker by exactly one rung and returns the new
// count. Confirming at the cap is a no-op, which makes retries harmless.
func (r *ProgressRepository) MarkDone(ticker string) (int, error) {
	key := strings.ToUpper(strings.TrimSpace(ticker))
	now := time.Now().UTC().Format(time.RFC3339)

	_, err := r.db.Exec(`
		INSERT INTO ladder_progress (ticker, levels_done, updated_at)
		VALUES (?, 1, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			levels_done = MIN(levels_done + 1, ?),
			updated_at = excluded.updated_at
	`, key, now, len(Rungs))
	if err != nil {
		return 0, fmt.Errorf("failed to mark ladder rung done: %w", err)
	}

	var done int
	if err := r.db.QueryRow("SELECT levels_done FROM ladder_progress WHERE ticker = ?", key).Scan(&done); err != nil {
		return 0, fmt.Errorf("failed to read ladder progress: %w", err)
	}

	r.log.Info().Str("ticker", key).Int("levels_done", done).Msg("Ladder rung confirmed")
	return done, nil
}
