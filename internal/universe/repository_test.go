package universe

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agiradar/internal/database"
)

func ip(v int) *int         { return &v }
func fp(v float64) *float64 { return &v }

func testRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewRepository(db.Conn(), zerolog.Nop())
}

func TestRepositoryUpsertAndGet(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Upsert(Entry{
		Ticker:         "bbai",
		Name:           "BigBear.ai",
		Category:       "ai",
		Exposure:       ip(9),
		WKN:            "A2QHFW",
		ReferencePrice: fp(2.50),
	}))

	got, err := repo.Get("BBAI")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BBAI", got.Ticker, "ticker stored uppercase")
	assert.Equal(t, "BigBear.ai", got.Name)
	require.NotNil(t, got.Exposure)
	assert.Equal(t, 9, *got.Exposure)
	require.NotNil(t, got.ReferencePrice)
	assert.Equal(t, 2.50, *got.ReferencePrice)
	assert.False(t, got.AddedAt.IsZero())

	// Second upsert updates in place.
	require.NoError(t, repo.Upsert(Entry{Ticker: "BBAI", Name: "BigBear.ai Holdings", Category: "ai"}))

	got, err = repo.Get("bbai")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "BigBear.ai Holdings", got.Name)
	assert.Nil(t, got.Exposure, "upsert replaces the whole row")

	entries, err := repo.All()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRepositoryGetMissing(t *testing.T) {
	repo := testRepo(t)

	got, err := repo.Get("NOPE")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryDelete(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Upsert(Entry{Ticker: "SOUN", Name: "SoundHound"}))

	deleted, err := repo.Delete("soun")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete("SOUN")
	require.NoError(t, err)
	assert.False(t, deleted, "second delete finds nothing")
}

func TestRepositoryAllOrdered(t *testing.T) {
	repo := testRepo(t)

	for _, ticker := range []string{"SOUN", "ABCL", "BBAI"} {
		require.NoError(t, repo.Upsert(Entry{Ticker: ticker, Name: ticker}))
	}

	entries, err := repo.All()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "ABCL", entries[0].Ticker)
	assert.Equal(t, "BBAI", entries[1].Ticker)
	assert.Equal(t, "SOUN", entries[2].Ticker)
}

func TestRepositoryExposureMap(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.Upsert(Entry{Ticker: "BBAI", Name: "BigBear.ai", Exposure: ip(9)}))
	require.NoError(t, repo.Upsert(Entry{Ticker: "TSLA", Name: "Tesla"}))

	exposures, err := repo.ExposureMap()
	require.NoError(t, err)
	require.Len(t, exposures, 2)
	require.NotNil(t, exposures["BBAI"])
	assert.Equal(t, 9, *exposures["BBAI"])
	assert.Nil(t, exposures["TSLA"], "unrated tickers map to nil")
}

func TestRepositorySnapshots(t *testing.T) {
	repo := testRepo(t)

	require.NoError(t, repo.SaveSnapshots([]Snapshot{
		{ScanID: "scan-1", Ticker: "SOUN", STS: 55.0, LAS: 62.0, Bucket: "buy_zone"},
		{ScanID: "scan-1", Ticker: "BBAI", STS: 71.5, LAS: 88.0, Bucket: "buy_zone", IsReversal: true},
		{ScanID: "scan-1", Ticker: "TSLA", STS: 40.0, LAS: 35.0, Bucket: "observe"},
	}))
	require.NoError(t, repo.SaveSnapshots([]Snapshot{
		{ScanID: "scan-2", Ticker: "BBAI", STS: 60.0, LAS: 80.0, Bucket: "buy_zone"},
	}))

	snapshots, err := repo.SnapshotsByScan("scan-1")
	require.NoError(t, err)
	require.Len(t, snapshots, 3, "other scans stay out")
	assert.Equal(t, "BBAI", snapshots[0].Ticker, "ordered by STS descending")
	assert.Equal(t, "SOUN", snapshots[1].Ticker)
	assert.Equal(t, "TSLA", snapshots[2].Ticker)
	assert.True(t, snapshots[0].IsReversal)
	assert.False(t, snapshots[0].CreatedAt.IsZero())
}

func TestRepositorySaveSnapshotsEmpty(t *testing.T) {
	repo := testRepo(t)
	require.NoError(t, repo.SaveSnapshots(nil))
}
