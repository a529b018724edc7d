package universe

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Repository handles universe entries and daily score snapshots.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "universe").Logger(),
	}
}

// Upsert inserts or updates an entry, keyed by uppercase ticker.
func (r *Repository) Upsert(e Entry) error {
	query := `
		INSERT INTO universe (ticker, name, category, exposure, wkn, reference_price, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker) DO UPDATE SET
			name = excluded.name,
			category = excluded.category,
			exposure = excluded.exposure,
			wkn = excluded.wkn,
			reference_price = excluded.reference_price
	`
	_, err := r.db.Exec(query,
		strings.ToUpper(strings.TrimSpace(e.Ticker)),
		e.Name,
		e.Category,
		nullIntPtr(e.Exposure),
		e.WKN,
		nullFloat64Ptr(e.ReferencePrice),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert universe entry: %w", err)
	}

	r.log.Info().Str("ticker", e.Ticker).Msg("Universe entry upserted")
	return nil
}

// All returns every entry ordered by ticker.
func (r *Repository) All() ([]Entry, error) {
	rows, err := r.db.Query(`
		SELECT ticker, name, category, exposure, wkn, reference_price, added_at
		FROM universe ORDER BY ticker
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query universe: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Get returns one entry, or nil when the ticker is not on the radar.
func (r *Repository) Get(ticker string) (*Entry, error) {
	row := r.db.QueryRow(`
		SELECT ticker, name, category, exposure, wkn, reference_price, added_at
		FROM universe WHERE ticker = ?
	`, strings.ToUpper(strings.TrimSpace(ticker)))

	var e Entry
	var exposure sql.NullInt64
	var refPrice sql.NullFloat64
	var addedAt string
	err := row.Scan(&e.Ticker, &e.Name, &e.Category, &exposure, &e.WKN, &refPrice, &addedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get universe entry: %w", err)
	}
	applyNullables(&e, exposure, refPrice, addedAt)
	return &e, nil
}

// Delete removes an entry; reports whether anything was deleted.
func (r *Repository) Delete(ticker string) (bool, error) {
	res, err := r.db.Exec("DELETE FROM universe WHERE ticker = ?", strings.ToUpper(strings.TrimSpace(ticker)))
	if err != nil {
		return false, fmt.Errorf("failed to delete universe entry: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ExposureMap returns exposure by uppercase ticker for the ladder engine.
func (r *Repository) ExposureMap() (map[string]*int, error) {
	rows, err := r.db.Query("SELECT ticker, exposure FROM universe")
	if err != nil {
		return nil, fmt.Errorf("failed to query exposures: %w", err)
	}
	defer rows.Close()

	exposures := make(map[string]*int)
	for rows.Next() {
		var ticker string
		var exposure sql.NullInt64
		if err := rows.Scan(&ticker, &exposure); err != nil {
			return nil, fmt.Errorf("failed to scan exposure: %w", err)
		}
		if exposure.Valid {
			v := int(exposure.Int64)
			exposures[ticker] = &v
		} else {
			exposures[ticker] = nil
		}
	}
	return exposures, rows.Err()
}

// SaveSnapshots persists one scan's scored entries atomically.
func (r *Repository) SaveSnapshots(snapshots []Snapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO score_snapshots (scan_id, ticker, sts, las, bucket, is_reversal, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare snapshot insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	for _, s := range snapshots {
		if _, err := stmt.Exec(s.ScanID, s.Ticker, s.STS, s.LAS, s.Bucket, s.IsReversal, now); err != nil {
			return fmt.Errorf("failed to insert snapshot for %s: %w", s.Ticker, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshots: %w", err)
	}

	r.log.Info().Int("count", len(snapshots)).Str("scan_id", snapshots[0].ScanID).Msg("Score snapshots saved")
	return nil
}

// SnapshotsByScan returns one scan's snapshots ordered by STS descending.
func (r *Repository) SnapshotsByScan(scanID string) ([]Snapshot, error) {
	rows, err := r.db.Query(`
		SELECT scan_id, ticker, sts, las, bucket, is_reversal, created_at
		FROM score_snapshots WHERE scan_id = ? ORDER BY sts DESC
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var createdAt string
		if err := rows.Scan(&s.ScanID, &s.Ticker, &s.STS, &s.LAS, &s.Bucket, &s.IsReversal, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, createdAt); err == nil {
			s.CreatedAt = ts
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	var exposure sql.NullInt64
	var refPrice sql.NullFloat64
	var addedAt string
	if err := rows.Scan(&e.Ticker, &e.Name, &e.Category, &exposure, &e.WKN, &refPrice, &addedAt); err != nil {
		return e, fmt.Errorf("failed to scan universe entry: %w", err)
	}
	applyNullables(&e, exposure, refPrice, addedAt)
	return e, nil
}

func applyNullables(e *Entry, exposure sql.NullInt64, refPrice sql.NullFloat64, addedAt string) {
	if exposure.Valid {
		v := int(exposure.Int64)
		e.Exposure = &v
	}
	if refPrice.Valid {
		v := refPrice.Float64
		e.ReferencePrice = &v
	}
	if ts, err := time.Parse(time.RFC3339, addedAt); err == nil {
		e.AddedAt = ts
	}
}

func nullIntPtr(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullFloat64Ptr(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
