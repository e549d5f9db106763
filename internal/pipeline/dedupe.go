package pipeline

import "assetpipe/internal"

// DedupeRecords keeps exactly one record per hostname. Ties go to the first
// occurrence in input order and retained records keep their relative order.
// Matching is exact: case variants are distinct hostnames.
func DedupeRecords(records []internal.AssetRecord) []internal.AssetRecord {
	seen := map[string]struct{}{}
	out := make([]internal.AssetRecord, 0, len(records))
	for _, rec := range records {
		if _, exists := seen[rec.Hostname]; exists {
			continue
		}
		seen[rec.Hostname] = struct{}{}
		out = append(out, rec)
	}
	return out
}
