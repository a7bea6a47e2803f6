package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/rtd-traffic/internal/config"
	"github.com/j-veylop/rtd-traffic/internal/db"
	"github.com/j-veylop/rtd-traffic/internal/loader"
	"github.com/j-veylop/rtd-traffic/internal/models"
	"github.com/j-veylop/rtd-traffic/internal/render"
)

const header = "Date,Version,Path,Views\n"

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.NoColor = true
	return cfg
}

func TestRun_TwoFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_A.csv", header+
		"2021-01-01 00:00:00,latest,/index.html,5\n"+
		"2021-01-02 00:00:00,latest,/index.html,3\n")
	writeCSV(t, dir, "rtd_B.csv", header+
		"2021-01-01 00:00:00,latest,/api.html,2\n")
	writeCSV(t, dir, "unrelated.csv", header+
		"2021-01-01 00:00:00,latest,/api.html,100\n")

	var out bytes.Buffer
	res, err := New(testConfig(), &out).Run(dir, "rtd_")
	require.NoError(t, err)

	assert.Equal(t, []models.DailyTrafficStat{
		{Date: day(2021, 1, 1), TotalViews: 7},
		{Date: day(2021, 1, 2), TotalViews: 3},
	}, res.Stats)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, int64(10), res.Summary.TotalViews)
	assert.Equal(t, filepath.Join(dir, render.FileName), res.ChartPath)
	assert.FileExists(t, res.ChartPath)

	console := out.String()
	assert.Contains(t, console, "Read rtd_A.csv with 2 entries\n")
	assert.Contains(t, console, "Read concat rtd_B.csv with 1 entries\n")
	assert.Contains(t, console, "2021-01-01 00:00:00")
	assert.Contains(t, console, "2 days, 10 total views")
	assert.NotContains(t, console, "\x1b[")
	assert.True(t, strings.Index(console, "Read rtd_A.csv") < strings.Index(console, "2021-01-02 00:00:00"))
}

func TestRun_OutOfOrderFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_1.csv", header+
		"2021-06-01 00:00:00,latest,/,1\n"+
		"2021-06-03 00:00:00,latest,/,1\n")
	writeCSV(t, dir, "rtd_2.csv", header+
		"2021-05-30 00:00:00,latest,/,4\n"+
		"2021-06-02 00:00:00,latest,/,2\n"+
		"2021-06-01 00:00:00,latest,/b,6\n")

	res, err := New(testConfig(), &bytes.Buffer{}).Run(dir, "rtd_")
	require.NoError(t, err)

	require.Len(t, res.Stats, 4)
	for i := 1; i < len(res.Stats); i++ {
		assert.True(t, res.Stats[i-1].Date.Before(res.Stats[i].Date))
	}
	assert.Equal(t, int64(7), res.Stats[1].TotalViews)
	assert.Equal(t, int64(14), res.Summary.TotalViews)
}

func TestRun_DuplicateDatesInOneFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_only.csv", header+
		"2021-03-04 00:00:00,latest,/a,1\n"+
		"2021-03-04 00:00:00,latest,/b,2\n"+
		"2021-03-04 00:00:00,latest,/c,3\n")

	res, err := New(testConfig(), &bytes.Buffer{}).Run(dir, "rtd_")
	require.NoError(t, err)
	assert.Equal(t, []models.DailyTrafficStat{{Date: day(2021, 3, 4), TotalViews: 6}}, res.Stats)
}

func TestRun_NoInputFiles(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "other.csv", header)

	var out bytes.Buffer
	_, err := New(testConfig(), &out).Run(dir, "rtd_")
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrNoInputFiles)

	_, statErr := os.Stat(filepath.Join(dir, render.FileName))
	assert.True(t, os.IsNotExist(statErr), "no image should be written")
	assert.Empty(t, out.String())
}

func TestRun_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_bad.csv", "Date,Path\n2021-01-01,/\n")

	_, err := New(testConfig(), &bytes.Buffer{}).Run(dir, "rtd_")
	var malformed *loader.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	assert.Contains(t, err.Error(), "rtd_bad.csv")
}

func TestRun_HeaderOnlyFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_empty.csv", header)

	var out bytes.Buffer
	res, err := New(testConfig(), &out).Run(dir, "rtd_")
	require.NoError(t, err)
	assert.Empty(t, res.Stats)
	assert.FileExists(t, res.ChartPath)
	assert.Contains(t, out.String(), "Read rtd_empty.csv with 0 entries")
}

func TestRun_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_A.csv", header+
		"2021-01-02 00:00:00,latest,/,3\n"+
		"2021-01-01 00:00:00,latest,/,5\n")

	var first, second bytes.Buffer
	res1, err := New(testConfig(), &first).Run(dir, "rtd_")
	require.NoError(t, err)
	img1, err := os.ReadFile(res1.ChartPath)
	require.NoError(t, err)

	res2, err := New(testConfig(), &second).Run(dir, "rtd_")
	require.NoError(t, err)
	img2, err := os.ReadFile(res2.ChartPath)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
	assert.Equal(t, res1.Stats, res2.Stats)
	assert.True(t, bytes.Equal(img1, img2), "chart bytes differ between identical runs")
}

func TestRun_Preview(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_A.csv", header+
		"2021-01-01 00:00:00,latest,/,5\n"+
		"2021-01-02 00:00:00,latest,/,3\n"+
		"2021-01-03 00:00:00,latest,/,9\n")

	cfg := testConfig()
	cfg.Preview = true
	cfg.PreviewHeight = 4

	var out bytes.Buffer
	_, err := New(cfg, &out).Run(dir, "rtd_")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "visits per day, 2021-01-01 to 2021-01-03")
}

func TestRun_Archive(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_A.csv", header+
		"2021-01-01 00:00:00,latest,/,5\n"+
		"2021-01-02 00:00:00,latest,/,3\n"+
		"2021-01-01 00:00:00,latest,/x,2\n")

	cfg := testConfig()
	cfg.ArchivePath = filepath.Join(t.TempDir(), "archive", "traffic.db")

	first, err := New(cfg, &bytes.Buffer{}).Run(dir, "rtd_")
	require.NoError(t, err)
	require.NotNil(t, first.Archive)
	assert.Equal(t, int64(10), first.Archive.TotalViews)
	assert.Nil(t, first.Archive.PreviousRun)

	second, err := New(cfg, &bytes.Buffer{}).Run(dir, "rtd_")
	require.NoError(t, err)
	require.NotNil(t, second.Archive)
	// Upserts keep the archive total stable across identical runs.
	assert.Equal(t, int64(10), second.Archive.TotalViews)
	require.NotNil(t, second.Archive.PreviousRun)
	assert.Equal(t, first.Archive.Run.ID, second.Archive.PreviousRun.ID)
	assert.Greater(t, second.Archive.Run.ID, first.Archive.Run.ID)

	store, err := db.New(cfg.ArchivePath)
	require.NoError(t, err)
	defer store.Close()

	stats, err := store.GetDailyStats()
	require.NoError(t, err)
	assert.Equal(t, []models.DailyTrafficStat{
		{Date: day(2021, 1, 1), TotalViews: 7},
		{Date: day(2021, 1, 2), TotalViews: 3},
	}, stats)

	runs, err := store.GetRecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, 3, runs[0].Records)
	assert.Equal(t, "2021-01-02 00:00:00", runs[0].LastDate)
}

func TestRun_OutputDirectoryNotWritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir := t.TempDir()
	writeCSV(t, dir, "rtd_A.csv", header+"2021-01-01 00:00:00,latest,/,5\n")
	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o700) })

	_, err := New(testConfig(), &bytes.Buffer{}).Run(dir, "rtd_")
	var writeErr *render.OutputWriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestNew_Defaults(t *testing.T) {
	a := New(nil, nil)
	require.NotNil(t, a.cfg)
	assert.Equal(t, config.Default(), a.cfg)
	assert.Equal(t, os.Stdout, a.out)
}
