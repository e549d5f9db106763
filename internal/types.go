package internal

import "time"

// Unknown is the sentinel for absent categorical values. Text fields never
// stay empty: normalization replaces blanks with this so dashboards get a
// visible bucket. Dates are the exception and stay null when absent.
const Unknown = "Unknown"

// Lifecycle statuses as they appear in vendor feeds. Anything outside this
// set is carried through verbatim and treated as low risk at enrichment.
const (
	LifecycleActive = "Active"
	LifecycleEOL    = "EOL"
	LifecycleEOS    = "EOS"
)

const (
	RiskHigh = "High"
	RiskLow  = "Low"
)

// Canonical column names shared by the input file, the cleaned artifact and
// the store.
const (
	ColHostname        = "hostname"
	ColCountry         = "country"
	ColOperatingSystem = "operating_system"
	ColProvider        = "operating_system_provider"
	ColLifecycle       = "operating_system_lifecycle_status"
	ColInstallDate     = "operating_system_installation_date"
	ColRiskLevel       = "risk_level"
	ColSystemAgeYears  = "system_age_years"
)

// InputColumns is the column order of raw and cleaned files.
var InputColumns = []string{
	ColHostname, ColCountry, ColOperatingSystem,
	ColProvider, ColLifecycle, ColInstallDate,
}

// DateLayout is the canonical on-disk form of the installation date.
const DateLayout = "2006-01-02"

// RawRow is one line of an input file before normalization. Values holds
// whatever the file had; a missing column is simply an absent key.
type RawRow struct {
	LineNo int
	Values map[string]string
}

// AssetRecord is one IT asset. Hostname is the unique key across the store.
// InstallDate and SystemAgeYears are tagged-optional: nil means absent, and
// absence is never coerced to the text sentinel.
type AssetRecord struct {
	Hostname        string
	Country         string
	OperatingSystem string
	Provider        string
	LifecycleStatus string
	InstallDate     *time.Time

	// Derived by enrichment; zero until then.
	RiskLevel      string
	SystemAgeYears *float64
}

// InstallDateString renders the canonical date, or "" when the date is absent.
func (r AssetRecord) InstallDateString() string {
	if r.InstallDate == nil {
		return ""
	}
	return r.InstallDate.Format(DateLayout)
}
