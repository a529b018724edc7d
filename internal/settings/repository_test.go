package settings

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agiradar/internal/database"
	"agiradar/internal/domain"
)

func testRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestThresholdsDefaultWhenUnset(t *testing.T) {
	repo := testRepo(t)

	th, err := repo.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultThresholds(), th)
}

func TestThresholdsRoundTrip(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.SaveThresholds(domain.Thresholds{RunUpPct: 25, DipPct: -20}))

	th, err := repo.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, 25.0, th.RunUpPct)
	assert.Equal(t, -20.0, th.DipPct)

	// Save again overwrites.
	require.NoError(t, repo.SaveThresholds(domain.Thresholds{RunUpPct: 40, DipPct: -35}))

	th, err = repo.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, 40.0, th.RunUpPct)
	assert.Equal(t, -35.0, th.DipPct)
}

func TestThresholdsIgnoreGarbageValues(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Set("run_up_pct", "not-a-number"))

	th, err := repo.Thresholds()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultThresholds().RunUpPct, th.RunUpPct)
}

func TestGetUnsetKey(t *testing.T) {
	repo := testRepo(t)

	raw, err := repo.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, raw)
}
