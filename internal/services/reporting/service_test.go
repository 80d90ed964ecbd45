package reporting

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/saae/almox/internal/database/seed"
	"github.com/saae/almox/internal/export"
	"github.com/saae/almox/internal/models"
	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/store"
	"github.com/saae/almox/internal/testutil"
	"github.com/saae/almox/internal/util"
)

func setupService(t *testing.T) (*Service, *store.Store, string) {
	t.Helper()
	clock := util.NewFixedClock(testutil.FixtureNow)
	s := store.New(seed.InitialState(), store.WithClock(clock), store.WithLogger(testutil.QuietLogger()))
	dir := filepath.Join(t.TempDir(), "exports")

	svc := NewService(s, Settings{
		Dir:       dir,
		Warehouse: "Almoxarifado Central",
		Author:    "SAAE",
		Options:   reports.DefaultOptions(),
	}, clock, testutil.QuietLogger())
	return svc, s, dir
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"xlsx", FormatXLSX, false},
		{" PDF ", FormatPDF, false},
		{"csv", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "ParseFormat(%q)", tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestService_ReportFollowsStore(t *testing.T) {
	svc, s, _ := setupService(t)
	ctx := context.Background()

	before := svc.Report()
	assert.Equal(t, 4, before.Summary.LowStockItems)
	assert.Len(t, svc.Replenishment(), 4)

	_, err := s.RecordMovement(ctx, store.MovementInput{
		Kind:        models.MovementEntry,
		ItemCode:    "HID001",
		Quantity:    10,
		Responsible: "Ana Paula",
	})
	require.NoError(t, err)

	after := svc.Report()
	assert.Equal(t, 3, after.Summary.LowStockItems)
	assert.Equal(t, before.Summary.TotalQuantity+10, after.Summary.TotalQuantity)
	assert.Len(t, svc.Replenishment(), 3)
}

func TestService_StorageMap(t *testing.T) {
	svc, _, _ := setupService(t)

	m := svc.StorageMap()
	assert.Len(t, m.Aisles, 5)
	assert.Empty(t, m.Unplaced)
}

func TestService_ExportXLSX(t *testing.T) {
	svc, _, dir := setupService(t)

	res, err := svc.Export(context.Background(), FormatXLSX)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "relatorio-20240120-090000.xlsx"), res.Path)
	assert.Equal(t, FormatXLSX, res.Format)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Len(t, data, res.Size)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	assert.Contains(t, f.GetSheetList(), export.SheetSummary)
}

func TestService_ExportPDF(t *testing.T) {
	svc, _, dir := setupService(t)

	res, err := svc.Export(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "relatorio-20240120-090000.pdf"), res.Path)

	data, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestService_ExportKeepsEarlierFiles(t *testing.T) {
	svc, _, dir := setupService(t)
	ctx := context.Background()

	first, err := svc.Export(ctx, FormatXLSX)
	require.NoError(t, err)
	second, err := svc.Export(ctx, FormatXLSX)
	require.NoError(t, err)

	assert.NotEqual(t, first.Path, second.Path)
	assert.Equal(t, filepath.Join(dir, "relatorio-20240120-090000-2.xlsx"), second.Path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temp files are cleaned up")
}

func TestService_ExportErrors(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Export(context.Background(), Format("csv"))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.Export(ctx, FormatXLSX)
	assert.ErrorIs(t, err, context.Canceled)
}
