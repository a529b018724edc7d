package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

// Repository handles journal and ladder-target persistence. The journal
// is append-only apart from explicit deletes; positions are never stored,
// they are rebuilt from the journal on demand.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "journal").Logger(),
	}
}

// Append inserts a new journal entry and returns its id.
func (r *Repository) Append(trade domain.Trade) (int64, error) {
	query := `
		INSERT INTO journal (ticker, action, shares, price, trade_date, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.Exec(query,
		strings.ToUpper(strings.TrimSpace(trade.Ticker)),
		trade.Action,
		trade.Shares,
		trade.Price,
		trade.Date,
		trade.Note,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to append journal entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read journal entry id: %w", err)
	}

	r.log.Info().
		Str("ticker", trade.Ticker).
		Str("action", trade.Action).
		Float64("shares", trade.Shares).
		Msg("Journal entry appended")

	return id, nil
}

// All returns every journal entry in insertion order.
func (r *Repository) All() ([]domain.Trade, error) {
	rows, err := r.db.Query(`
		SELECT id, ticker, action, shares, price, trade_date, note, created_at
		FROM journal ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// DeleteByID removes one entry; reports whether anything was deleted.
func (r *Repository) DeleteByID(id int64) (bool, error) {
	res, err := r.db.Exec("DELETE FROM journal WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete journal entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteByTicker removes all entries for a ticker and returns the count.
func (r *Repository) DeleteByTicker(ticker string) (int64, error) {
	res, err := r.db.Exec("DELETE FROM journal WHERE ticker = ?", strings.ToUpper(strings.TrimSpace(ticker)))
	if err != nil {
		return 0, fmt.Errorf("failed to delete journal entries: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		r.log.Info().Str("ticker", ticker).Int64("deleted", n).Msg("Journal entries deleted")
	}
	return n, nil
}

// SetTargets stores an explicit ladder-target override for a ticker.
// The override survives journal rebuilds until cleared.
func (r *Repository) SetTargets(ticker string, targets []float64) error {
	data, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("failed to encode targets: %w", err)
	}
	_, err = r.db.Exec(`
		INSERT INTO ladder_targets (ticker, targets) VALUES (?, ?)
		ON CONFLICT(ticker) DO UPDATE SET targets = excluded.targets
	`, strings.ToUpper(strings.TrimSpace(ticker)), string(data))
	if err != nil {
		return fmt.Errorf("failed to store targets: %w", err)
	}
	return nil
}

// ClearTargets removes a ticker's explicit override.
func (r *Repository) ClearTargets(ticker string) error {
	if _, err := r.db.Exec("DELETE FROM ladder_targets WHERE ticker = ?", strings.ToUpper(strings.TrimSpace(ticker))); err != nil {
		return fmt.Errorf("failed to clear targets: %w", err)
	}
	return nil
}

// AllTargets returns every stored override keyed by uppercase ticker.
func (r *Repository) AllTargets() (map[string][]float64, error) {
	rows, err := r.db.Query("SELECT ticker, targets FROM ladder_targets")
	if err != nil {
		return nil, fmt.Errorf("failed to query targets: %w", err)
	}
	defer rows.Close()

	targets := make(map[string][]float64)
	for rows.Next() {
		var ticker, raw string
		if err := rows.Scan(&ticker, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan targets: %w", err)
		}
		var vals []float64
		if err := json.Unmarshal([]byte(raw), &vals); err != nil {
			return nil, fmt.Errorf("failed to decode targets for %s: %w", ticker, err)
		}
		targets[ticker] = vals
	}
	return targets, rows.Err()
}

func scanTrade(rows *sql.Rows) (domain.Trade, error) {
	var t domain.Trade
	var createdAt string
	if err := rows.Scan(&t.ID, &t.Ticker, &t.Action, &t.Shares, &t.Price, &t.Date, &t.Note, &createdAt); err != nil {
		return t, fmt.Errorf("failed to scan journal entry: %w", err)
	}
	if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
		t.CreatedAt = ts
	}
	return t, nil
}
