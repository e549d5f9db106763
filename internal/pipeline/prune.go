package pipeline

import (
	"assetpipe/internal"
	"assetpipe/internal/storage"
)

// IsInvalid reports whether a record fails the minimum-completeness rules:
// a sentinel hostname (never truly present) or a sentinel provider.
func IsInvalid(rec internal.AssetRecord) bool {
	return rec.Hostname == internal.Unknown || rec.Provider == internal.Unknown
}

// PruneStore permanently deletes invalid records from the store. Runs after
// enrichment; there is no soft delete. Returns the number removed.
func PruneStore(db *storage.DB) (int, error) {
	records, err := db.ListAssets()
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, rec := range records {
		if !IsInvalid(rec) {
			continue
		}
		if err := db.DeleteAsset(rec.Hostname); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
