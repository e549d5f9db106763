package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assetpipe/internal"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "assets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func sampleRecords(t *testing.T) []internal.AssetRecord {
	t.Helper()
	install, err := time.Parse(internal.DateLayout, "2015-06-01")
	require.NoError(t, err)
	return []internal.AssetRecord{
		{Hostname: "srv01", Country: "US", OperatingSystem: "Windows Server 2012",
			Provider: "Microsoft", LifecycleStatus: internal.LifecycleEOL, InstallDate: &install},
		{Hostname: "srv02", Country: "DE", OperatingSystem: "Ubuntu 22.04",
			Provider: "Canonical", LifecycleStatus: internal.LifecycleActive},
	}
}

func TestUpsertAssetsIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	records := sampleRecords(t)

	require.NoError(t, db.UpsertAssets(records))
	require.NoError(t, db.UpsertAssets(records))

	count, err := db.CountAssets()
	require.NoError(t, err)
	assert.Equal(t, 2, count, "duplicate bulk loads must upsert by hostname")
}

func TestUpsertResetsDerivedColumns(t *testing.T) {
	db := openTestDB(t)
	records := sampleRecords(t)
	require.NoError(t, db.UpsertAssets(records))

	age := 10.0
	require.NoError(t, db.SetDerived("srv01", internal.RiskHigh, &age))

	// Reloading the record invalidates stale derived values.
	require.NoError(t, db.UpsertAssets(records[:1]))
	rec, err := db.GetAsset("srv01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, rec.RiskLevel)
	assert.Nil(t, rec.SystemAgeYears)
}

func TestSetDerivedTouchesOnlyDerivedColumns(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.UpsertAssets(sampleRecords(t)))

	age := 10.0013
	require.NoError(t, db.SetDerived("srv01", internal.RiskHigh, &age))

	rec, err := db.GetAsset("srv01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, internal.RiskHigh, rec.RiskLevel)
	require.NotNil(t, rec.SystemAgeYears)
	assert.InDelta(t, age, *rec.SystemAgeYears, 1e-9)
	assert.Equal(t, "US", rec.Country)
	assert.Equal(t, "2015-06-01", rec.InstallDateString())
}

func TestSetDerivedMissingAsset(t *testing.T) {
	db := openTestDB(t)
	err := db.SetDerived("nope", internal.RiskLow, nil)
	assert.Error(t, err)
}

func TestDeleteAsset(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.UpsertAssets(sampleRecords(t)))
	require.NoError(t, db.DeleteAsset("srv01"))

	rec, err := db.GetAsset("srv01")
	require.NoError(t, err)
	assert.Nil(t, rec)

	count, err := db.CountAssets()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCountByField(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.UpsertAssets(sampleRecords(t)))

	counts, err := db.CountByField(internal.ColLifecycle)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[internal.LifecycleEOL])
	assert.Equal(t, 1, counts[internal.LifecycleActive])

	// Not yet enriched: risk_level groups under the empty key.
	counts, err = db.CountByField(internal.ColRiskLevel)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[""])

	_, err = db.CountByField("hostname; DROP TABLE assets")
	assert.Error(t, err)
}

func TestMetadataRoundTrip(t *testing.T) {
	db := openTestDB(t)

	missing, err := db.GetMetadata("watch.processed.abc")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, db.SetMetadata("watch.processed.abc", "2026-08-30T00:00:00Z"))
	require.NoError(t, db.SetMetadata("watch.processed.abc", "2026-08-30T01:00:00Z"))

	value, err := db.GetMetadata("watch.processed.abc")
	require.NoError(t, err)
	require.NotNil(t, value)
	assert.Equal(t, "2026-08-30T01:00:00Z", *value)
}

func TestInsertRun(t *testing.T) {
	db := openTestDB(t)
	err := db.InsertRun("abc123", "inventory.csv",
		map[string]float64{"totalMs": 12},
		map[string]int{"read": 3, "retained": 2})
	require.NoError(t, err)
}
