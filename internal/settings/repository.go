// Package settings stores small tunables as key-value pairs, currently
// just the momentum thresholds.
package settings

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"agiradar/internal/domain"
)

const (
	keyRunUpPct = "run_up_pct"
	keyDipPct   = "dip_pct"
)

type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "settings").Logger(),
	}
}

// Get returns the raw value for a key, or nil when unset.
func (r *Repository) Get(key string) (*string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return &value, nil
}

// Set stores a value under a key.
func (r *Repository) Set(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s: %w", key, err)
	}
	return nil
}

// Thresholds returns the stored momentum cutoffs, falling back to the
// defaults for anything unset or unparseable.
func (r *Repository) Thresholds() (domain.Thresholds, error) {
	th := domain.DefaultThresholds()

	if raw, err := r.Get(keyRunUpPct); err != nil {
		return th, err
	} else if raw != nil {
		if v, err := strconv.ParseFloat(*raw, 64); err == nil {
			th.RunUpPct = v
		}
	}

	if raw, err := r.Get(keyDipPct); err != nil {
		return th, err
	} else if raw != nil {
		if v, err := strconv.ParseFloat(*raw, 64); err == nil {
			th.DipPct = v
		}
	}

	return th, nil
}

// SaveThresholds persists both cutoffs.
func (r *Repository) SaveThresholds(th domain.Thresholds) error {
	if err := r.Set(keyRunUpPct, strconv.FormatFloat(th.RunUpPct, 'f', -1, 64)); err != nil {
		return err
	}
	if err := r.Set(keyDipPct, strconv.FormatFloat(th.DipPct, 'f', -1, 64)); err != nil {
		return err
	}
	r.log.Info().
		Float64("run_up_pct", th.RunUpPct).
		Float64("dip_pct", th.DipPct).
		Msg("Thresholds updated")
	return nil
}
