package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"assetpipe/internal/config"
	"assetpipe/internal/rules"
	"assetpipe/internal/storage"
)

// Service runs the pipeline phases in order against one store. Phases are
// sequential over the full record set; the store is assumed to have no
// concurrent writers for the duration of a run.
type Service struct {
	db    *storage.DB
	cfg   config.Config
	rules rules.Set
}

func NewService(db *storage.DB, cfg config.Config, set rules.Set) *Service {
	return &Service{db: db, cfg: cfg, rules: set}
}

type CleanResult struct {
	Read       int
	Deduped    int
	OutputPath string
}

type RunResult struct {
	Clean    CleanResult
	Indexed  int
	Enriched int
	Pruned   int
	Retained int
}

// Clean ingests a raw inventory file, normalizes and deduplicates it, and
// writes the cleaned artifact. The store is not touched.
func (s *Service) Clean(inputPath, outputPath string) (CleanResult, error) {
	raw, err := ReadInput(inputPath)
	if err != nil {
		return CleanResult{}, fmt.Errorf("read input: %w", err)
	}

	records := DedupeRecords(NormalizeRows(raw))
	if outputPath == "" {
		outputPath = s.defaultCleanedPath(inputPath)
	}
	if err := WriteCleanedCSV(records, outputPath); err != nil {
		return CleanResult{}, fmt.Errorf("write cleaned file: %w", err)
	}

	return CleanResult{Read: len(raw), Deduped: len(records), OutputPath: outputPath}, nil
}

// Index bulk-loads a cleaned artifact into the store, upserting by hostname
// so repeated loads of the same file stay safe.
func (s *Service) Index(cleanedPath string) (int, error) {
	records, err := ReadCleanedCSV(cleanedPath)
	if err != nil {
		return 0, fmt.Errorf("read cleaned file: %w", err)
	}
	if err := s.db.UpsertAssets(records); err != nil {
		return 0, fmt.Errorf("bulk load: %w", err)
	}
	return len(records), nil
}

// Enrich recomputes derived fields for every stored record.
func (s *Service) Enrich(reference time.Time) (int, error) {
	return EnrichStore(s.db, s.rules, reference)
}

// Prune deletes invalid records from the store.
func (s *Service) Prune() (int, error) {
	return PruneStore(s.db)
}

// Run executes the full pipeline on one input file: clean, load, enrich,
// prune. One row of timings and counts lands in the runs table.
func (s *Service) Run(inputPath, outputPath string, reference time.Time) (RunResult, error) {
	start := time.Now()
	timings := map[string]float64{}
	phase := func(name string, since time.Time) {
		timings[name+"Ms"] = float64(time.Since(since).Milliseconds())
	}

	t := time.Now()
	clean, err := s.Clean(inputPath, outputPath)
	if err != nil {
		return RunResult{}, err
	}
	phase("clean", t)

	t = time.Now()
	indexed, err := s.Index(clean.OutputPath)
	if err != nil {
		return RunResult{}, err
	}
	phase("index", t)

	t = time.Now()
	enriched, err := s.Enrich(reference)
	if err != nil {
		return RunResult{}, err
	}
	phase("enrich", t)

	t = time.Now()
	pruned, err := s.Prune()
	if err != nil {
		return RunResult{}, err
	}
	phase("prune", t)

	retained, err := s.db.CountAssets()
	if err != nil {
		return RunResult{}, err
	}

	phase("total", start)
	_ = s.db.InsertRun(traceID(), inputPath, timings, map[string]int{
		"read":     clean.Read,
		"deduped":  clean.Deduped,
		"indexed":  indexed,
		"enriched": enriched,
		"pruned":   pruned,
		"retained": retained,
	})

	return RunResult{
		Clean:    clean,
		Indexed:  indexed,
		Enriched: enriched,
		Pruned:   pruned,
		Retained: retained,
	}, nil
}

func (s *Service) defaultCleanedPath(inputPath string) string {
	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	return filepath.Join(s.cfg.OutputDir, base+"_cleaned.csv")
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
