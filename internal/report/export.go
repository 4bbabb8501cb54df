package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/rileva/internal/aggregate"
	"github.com/Tiliavir/rileva/internal/log"
	"github.com/Tiliavir/rileva/internal/model"
	"github.com/Tiliavir/rileva/internal/workbook"
)

// ExportOutcome describes a finished export.
type ExportOutcome struct {
	Path        string
	Record      model.ExportRecord
	Writer      string
	Degraded    bool
	TemplateErr error
}

// Snapshot builds the export input of month m without validating it.
func (s *Service) Snapshot(m model.MonthKey) (workbook.Snapshot, error) {
	summary, entries, err := s.Summary(m)
	if err != nil {
		return workbook.Snapshot{}, err
	}
	return s.snapshotFrom(summary, entries)
}

func (s *Service) snapshotFrom(summary aggregate.Summary, entries []model.DayEntry) (workbook.Snapshot, error) {
	extracts, err := s.Extracts()
	if err != nil {
		return workbook.Snapshot{}, err
	}
	profile, err := s.Profile()
	if err != nil {
		return workbook.Snapshot{}, err
	}
	return workbook.FromSummary(summary, profile.Name, profile.AdminEmail, entries, s.cat.Activities, extracts), nil
}

// Export validates month m, writes its workbook into outDir and records it in
// the history. On success the month's entries are cleared and the selected
// month is reset.
func (s *Service) Export(ctx context.Context, m model.MonthKey, outDir string) (ExportOutcome, error) {
	if s.exporter == nil {
		return ExportOutcome{}, workbook.ErrNoWriter
	}
	if !m.Valid() {
		return ExportOutcome{}, fmt.Errorf("%w: %q", ErrInvalidMonth, m)
	}

	s.exportMu.Lock()
	defer s.exportMu.Unlock()

	id := uuid.NewString()
	ctx = log.WithFields(ctx, "export_id", id, "month", string(m))

	summary, entries, err := s.Summary(m)
	if err != nil {
		return ExportOutcome{}, err
	}
	if err := summary.ExportReady(); err != nil {
		s.logger.Infof(ctx, "export blocked: %v", err)
		return ExportOutcome{}, err
	}

	snap, err := s.snapshotFrom(summary, entries)
	if err != nil {
		return ExportOutcome{}, err
	}
	res, err := s.exporter.Export(ctx, snap)
	if err != nil {
		s.logger.Errorf(ctx, "export failed: %v", err)
		return ExportOutcome{}, err
	}
	if res.Degraded {
		s.logger.Warnf(ctx, "exported without template: %v", res.TemplateErr)
	}

	path, err := writeFile(outDir, res.Filename, res.Data)
	if err != nil {
		return ExportOutcome{}, err
	}

	rec := model.ExportRecord{
		ID:       id,
		Filename: res.Filename,
		Date:     s.now().UTC().Format(time.RFC3339),
		Month:    string(m),
		DataURL:  workbook.DataURL(res.Data),
	}
	if err := s.store.SaveExportHistory(rec); err != nil {
		return ExportOutcome{}, err
	}
	if err := s.store.ClearMonthlyData(m); err != nil {
		return ExportOutcome{}, err
	}
	if err := s.store.SaveCurrentMonthKey(""); err != nil {
		return ExportOutcome{}, err
	}
	s.logger.Infof(ctx, "exported %s with %s", path, res.Writer)

	return ExportOutcome{
		Path:        path,
		Record:      rec,
		Writer:      res.Writer,
		Degraded:    res.Degraded,
		TemplateErr: res.TemplateErr,
	}, nil
}

// History returns the export history, newest first.
func (s *Service) History() ([]model.ExportRecord, error) {
	return s.store.ExportHistory()
}

// SaveHistoryFile writes the workbook of history record id into outDir.
func (s *Service) SaveHistoryFile(id, outDir string) (string, error) {
	list, err := s.store.ExportHistory()
	if err != nil {
		return "", err
	}
	for _, rec := range list {
		if rec.ID != id {
			continue
		}
		data, err := workbook.DecodeDataURL(rec.DataURL)
		if err != nil {
			return "", fmt.Errorf("history record %s: %w", id, err)
		}
		return writeFile(outDir, rec.Filename, data)
	}
	return "", fmt.Errorf("history record %s: %w", id, ErrNotFound)
}

// writeFile atomically writes data to dir/name.
func writeFile(dir, name string, data []byte) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(dir, name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
