// Package reporting builds reports from the live store and exports them.
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/saae/almox/internal/export"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/util"
)

// Source is the part of the store the service reads.
type Source interface {
	Snapshot() store.State
}

// Service provides report and export operations.
type Service struct {
	source   Source
	settings Settings
	clock    util.Clock
	log      *slog.Logger
}

// NewService creates a reporting service over source. A nil logger
// discards output.
func NewService(source Source, settings Settings, clock util.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = util.SystemClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if settings.ReplenishFactor.IsZero() {
		settings.ReplenishFactor = reports.DefaultReplenishFactor
	}
	return &Service{source: source, settings: settings, clock: clock, log: logger}
}

// Report aggregates the current state.
func (s *Service) Report() *reports.Report {
	return reports.Build(s.source.Snapshot(), s.clock.Now(), s.settings.Options)
}

// Replenishment proposes purchases for the current low-stock items.
func (s *Service) Replenishment() []reports.Suggestion {
	return s.replenishment(s.source.Snapshot())
}

func (s *Service) replenishment(st store.State) []reports.Suggestion {
	unit := s.settings.Options.UnitValue
	if unit.IsNegative() {
		unit = reports.DefaultUnitValue
	}
	return reports.Replenishment(st.Items, s.settings.ReplenishFactor, unit)
}

// StorageMap lays out the current stock by aisle.
func (s *Service) StorageMap() reports.StorageMap {
	return reports.BuildStorageMap(s.source.Snapshot())
}

// Export renders the current state in format and writes it to a
// timestamped file under the export directory.
func (s *Service) Export(ctx context.Context, format Format) (ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return ExportResult{}, err
	}

	now := s.clock.Now()
	st := s.source.Snapshot()
	r := reports.Build(st, now, s.settings.Options)

	var buf bytes.Buffer
	switch format {
	case FormatXLSX:
		if err := export.WriteXLSX(&buf, r, st); err != nil {
			return ExportResult{}, fmt.Errorf("exporting xlsx: %w", err)
		}
	case FormatPDF:
		data, err := export.RenderPDF(r, export.PDFMeta{
			Warehouse:     s.settings.Warehouse,
			Author:        s.settings.Author,
			Replenishment: s.replenishment(st),
		})
		if err != nil {
			return ExportResult{}, fmt.Errorf("exporting pdf: %w", err)
		}
		buf.Write(data)
	default:
		return ExportResult{}, fmt.Errorf("unknown export format %q", format)
	}

	path, err := s.write(now.Format(util.FileStampFormat), format, buf.Bytes())
	if err != nil {
		return ExportResult{}, err
	}

	s.log.Info("report exported", "format", format, "path", path, "bytes", buf.Len())
	return ExportResult{Format: format, Path: path, Size: buf.Len(), At: now}, nil
}

// write stores data as relatorio-<stamp>.<ext>. The file appears under its
// final name only once fully written.
func (s *Service) write(stamp string, format Format, data []byte) (string, error) {
	if err := os.MkdirAll(s.settings.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export dir: %w", err)
	}

	name := fmt.Sprintf("relatorio-%s.%s", stamp, format)
	path := filepath.Join(s.settings.Dir, name)
	for i := 2; fileExists(path); i++ {
		path = filepath.Join(s.settings.Dir, fmt.Sprintf("relatorio-%s-%d.%s", stamp, i, format))
	}

	tmp, err := os.CreateTemp(s.settings.Dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("creating export file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("creating export file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("placing export file: %w", err)
	}
	return path, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
