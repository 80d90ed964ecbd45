package stats

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saae/almox/internal/reports"
	"github.com/saae/almox/internal/services/reporting"
	"github.com/saae/almox/internal/testutil"
	"github.com/saae/almox/internal/tui/views"
)

func setupView(t *testing.T) (*ReportsView, string) {
	t.Helper()
	s, clock := testutil.NewSeededStore(t)
	dir := filepath.Join(t.TempDir(), "exports")
	svc := reporting.NewService(s, reporting.Settings{
		Dir:       dir,
		Warehouse: "Almoxarifado Central",
		Author:    "SAAE",
		Options:   reports.DefaultOptions(),
	}, clock, testutil.QuietLogger())
	return NewReportsView(svc), dir
}

func TestReportsView_Summary(t *testing.T) {
	v, _ := setupView(t)

	out := v.Render(120, 50)
	for _, want := range []string{
		"REPORTS", "13 (482 units)", "3 of 6", "R$ 24.100,00",
		"Hidráulica", "REPLENISHMENT", "HID004", "R$ 1.250,00",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 4, v.table.RowCount())
}

func TestReportsView_StorageMap(t *testing.T) {
	v, _ := setupView(t)

	v.Update(testutil.Key("m"))
	out := v.Render(120, 50)
	assert.Contains(t, out, "STORAGE MAP")
	assert.Contains(t, out, "AISLE A")
	assert.Contains(t, out, "A2-P1-N3-001")
	assert.Contains(t, out, "[pump]")

	assert.True(t, v.Back())
	assert.Contains(t, v.Render(120, 50), "SUMMARY")
	assert.False(t, v.Back())
}

func TestReportsView_Export(t *testing.T) {
	v, dir := setupView(t)

	for _, key := range []string{"x", "p"} {
		cmd := v.Update(testutil.Key(key))
		require.NotNil(t, cmd, "key %s", key)
		assert.Nil(t, v.Update(testutil.Key(key)), "second export while one runs")

		done := v.Update(cmd())
		require.NotNil(t, done)
		res, ok := done().(views.ResultMsg)
		require.True(t, ok)
		require.NoError(t, res.Err)
		assert.True(t, strings.HasPrefix(res.Text, "Report exported to "+dir))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var exts []string
	for _, e := range entries {
		exts = append(exts, filepath.Ext(e.Name()))
	}
	assert.ElementsMatch(t, []string{".xlsx", ".pdf"}, exts)
}
