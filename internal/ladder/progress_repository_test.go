package ladder

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agiradar/internal/database"
)

func testProgressRepo(t *testing.T) *ProgressRepository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewProgressRepository(db.Conn(), zerolog.Nop())
}

func TestProgressMarkDoneAdvancesByOne(t *testing.T) {
	repo := testProgressRepo(t)

	for want := 1; want <= 3; want++ {
		done, err := repo.MarkDone("bbai")
		require.NoError(t, err)
		assert.Equal(t, want, done)
	}

	progress, err := repo.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"BBAI": 3}, progress, "keyed by uppercase ticker")
}

func TestProgressMarkDoneCapsAtRungCount(t *testing.T) {
	repo := testProgressRepo(t)

	var done int
	var err error
	for i := 0; i < len(Rungs)+4; i++ {
		done, err = repo.MarkDone("SOUN")
		require.NoError(t, err)
	}
	assert.Equal(t, len(Rungs), done, "retries past the cap are no-ops")
}

func TestProgressStartsEmpty(t *testing.T) {
	repo := testProgressRepo(t)

	progress, err := repo.All()
	require.NoError(t, err)
	assert.Empty(t, progress)
}
