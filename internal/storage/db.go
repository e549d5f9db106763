package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"assetpipe/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	// Derived columns are declared up front so enrichment is a plain UPDATE.
	schema := `
CREATE TABLE IF NOT EXISTS assets (
  hostname TEXT PRIMARY KEY,
  country TEXT NOT NULL,
  operating_system TEXT NOT NULL,
  operating_system_provider TEXT NOT NULL,
  operating_system_lifecycle_status TEXT NOT NULL,
  operating_system_installation_date TEXT,
  risk_level TEXT,
  system_age_years REAL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_assets_provider ON assets(operating_system_provider);
CREATE INDEX IF NOT EXISTS idx_assets_lifecycle ON assets(operating_system_lifecycle_status);
CREATE INDEX IF NOT EXISTS idx_assets_risk ON assets(risk_level);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  inputRef TEXT,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertAssets bulk-loads records keyed by hostname. Re-loading the same
// cleaned file is safe: conflicting rows are overwritten in place and their
// derived columns reset, since enrichment runs after loading anyway.
func (d *DB) UpsertAssets(records []internal.AssetRecord) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO assets (
  hostname, country, operating_system,
  operating_system_provider, operating_system_lifecycle_status,
  operating_system_installation_date, risk_level, system_age_years
) VALUES (?, ?, ?, ?, ?, ?, NULL, NULL)
ON CONFLICT(hostname) DO UPDATE SET
  country=excluded.country,
  operating_system=excluded.operating_system,
  operating_system_provider=excluded.operating_system_provider,
  operating_system_lifecycle_status=excluded.operating_system_lifecycle_status,
  operating_system_installation_date=excluded.operating_system_installation_date,
  risk_level=NULL,
  system_age_years=NULL,
  updatedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(
			rec.Hostname, rec.Country, rec.OperatingSystem,
			rec.Provider, rec.LifecycleStatus, installDateValue(rec.InstallDate),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListAssets() ([]internal.AssetRecord, error) {
	rows, err := d.conn.Query(`
SELECT hostname, country, operating_system,
       operating_system_provider, operating_system_lifecycle_status,
       operating_system_installation_date, risk_level, system_age_years
FROM assets ORDER BY hostname ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.AssetRecord
	for rows.Next() {
		rec, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) GetAsset(hostname string) (*internal.AssetRecord, error) {
	row := d.conn.QueryRow(`
SELECT hostname, country, operating_system,
       operating_system_provider, operating_system_lifecycle_status,
       operating_system_installation_date, risk_level, system_age_years
FROM assets WHERE hostname = ?`, hostname)

	rec, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetDerived writes the enrichment output for one record, leaving every
// other column untouched.
func (d *DB) SetDerived(hostname, riskLevel string, ageYears *float64) error {
	result, err := d.conn.Exec(`
UPDATE assets SET risk_level = ?, system_age_years = ?, updatedAt = CURRENT_TIMESTAMP
WHERE hostname = ?`, riskLevel, ageYears, hostname)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("asset not found: %s", hostname)
	}
	return nil
}

func (d *DB) DeleteAsset(hostname string) error {
	_, err := d.conn.Exec(`DELETE FROM assets WHERE hostname = ?`, hostname)
	return err
}

func (d *DB) CountAssets() (int, error) {
	var count int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&count)
	return count, err
}

// CountByField returns the categorical breakdown for a dashboard-facing
// column. NULL cells (not yet enriched) count under the empty key.
func (d *DB) CountByField(column string) (map[string]int, error) {
	switch column {
	case internal.ColRiskLevel, internal.ColLifecycle, internal.ColCountry, internal.ColProvider:
	default:
		return nil, fmt.Errorf("not a categorical column: %s", column)
	}

	rows, err := d.conn.Query(`SELECT COALESCE(` + column + `, ''), COUNT(*) FROM assets GROUP BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var value string
		var count int
		if err := rows.Scan(&value, &count); err != nil {
			return nil, err
		}
		out[value] = count
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID, inputRef string, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, inputRef, timingsJson, countsJson) VALUES (?, ?, ?, ?)`,
		traceID, inputRef, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (internal.AssetRecord, error) {
	var rec internal.AssetRecord
	var installDate sql.NullString
	var riskLevel sql.NullString
	var ageYears sql.NullFloat64

	err := row.Scan(
		&rec.Hostname, &rec.Country, &rec.OperatingSystem,
		&rec.Provider, &rec.LifecycleStatus,
		&installDate, &riskLevel, &ageYears,
	)
	if err != nil {
		return internal.AssetRecord{}, err
	}

	if installDate.Valid && installDate.String != "" {
		t, err := time.Parse(internal.DateLayout, installDate.String)
		if err != nil {
			return internal.AssetRecord{}, fmt.Errorf("stored date for %s is not canonical: %w", rec.Hostname, err)
		}
		t = t.UTC()
		rec.InstallDate = &t
	}
	if riskLevel.Valid {
		rec.RiskLevel = riskLevel.String
	}
	if ageYears.Valid {
		v := ageYears.Float64
		rec.SystemAgeYears = &v
	}

	return rec, nil
}

func installDateValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(internal.DateLayout)
}
