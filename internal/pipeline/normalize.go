package pipeline

import (
	"assetpipe/internal"
	"assetpipe/internal/util"
)

// NormalizeRow turns a raw row into an asset record: text fields are
// trimmed, blanks and missing columns become the sentinel, and the
// installation date is parsed into canonical form or left null when it
// cannot be read. Normalizing an already-normalized record is a no-op.
func NormalizeRow(row internal.RawRow) internal.AssetRecord {
	return internal.AssetRecord{
		Hostname:        normalizeText(row.Values[internal.ColHostname]),
		Country:         normalizeText(row.Values[internal.ColCountry]),
		OperatingSystem: normalizeText(row.Values[internal.ColOperatingSystem]),
		Provider:        normalizeText(row.Values[internal.ColProvider]),
		LifecycleStatus: normalizeText(row.Values[internal.ColLifecycle]),
		InstallDate:     util.ParseDate(row.Values[internal.ColInstallDate]),
	}
}

// NormalizeRows normalizes every row, preserving input order.
func NormalizeRows(rows []internal.RawRow) []internal.AssetRecord {
	out := make([]internal.AssetRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, NormalizeRow(row))
	}
	return out
}

func normalizeText(value string) string {
	cleaned := util.CleanText(value)
	if cleaned == "" {
		return internal.Unknown
	}
	return cleaned
}
