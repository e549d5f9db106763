// Package watcher runs the pipeline periodically over an inbox directory of
// inventory drops, skipping files it has already processed.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"assetpipe/internal/config"
	"assetpipe/internal/pipeline"
	"assetpipe/internal/storage"
)

type Service struct {
	db   *storage.DB
	cfg  config.Config
	proc *pipeline.Service
	log  *slog.Logger
}

func NewService(db *storage.DB, cfg config.Config, proc *pipeline.Service, log *slog.Logger) *Service {
	return &Service{db: db, cfg: cfg, proc: proc, log: log}
}

func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.log.Error("watch cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.WatchIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	entries, err := os.ReadDir(s.cfg.InboxDir)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}

	reference, err := s.cfg.ReferenceTime()
	if err != nil {
		return err
	}

	processed := 0
	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if processed >= s.cfg.WatchBatchMax {
			break
		}
		if entry.IsDir() || !isInventoryFile(entry.Name()) {
			continue
		}

		path := filepath.Join(s.cfg.InboxDir, entry.Name())
		hash, err := fileHash(path)
		if err != nil {
			s.log.Warn("skipping unreadable file", "file", entry.Name(), "error", err)
			continue
		}

		key := "watch.processed." + hash
		already, err := s.db.GetMetadata(key)
		if err != nil {
			return err
		}
		if already != nil {
			continue
		}

		result, err := s.proc.Run(path, "", reference)
		if err != nil {
			s.log.Error("pipeline run failed", "file", entry.Name(), "error", err)
			continue
		}
		if err := s.db.SetMetadata(key, time.Now().UTC().Format(time.RFC3339)); err != nil {
			return err
		}
		processed++

		s.log.Info("processed inventory file",
			"file", entry.Name(),
			"read", result.Clean.Read,
			"deduped", result.Clean.Deduped,
			"enriched", result.Enriched,
			"pruned", result.Pruned,
			"retained", result.Retained)

		if s.cfg.WatchAutoExport {
			if err := s.exportSnapshot(entry.Name()); err != nil {
				s.log.Error("snapshot export failed", "file", entry.Name(), "error", err)
			}
		}
	}

	s.log.Debug("watch cycle done", "files", processed)
	return nil
}

func (s *Service) exportSnapshot(inputName string) error {
	records, err := s.db.ListAssets()
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(inputName, filepath.Ext(inputName))
	out := filepath.Join(s.cfg.OutputDir, base+"_assets.xlsx")
	return pipeline.ExportXLSX(records, out)
}

func isInventoryFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

func fileHash(path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]), nil
}
