package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/docsum"
	"github.com/fwojciec/docsum/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var processedAt = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

func sampleRecords() []docsum.PageRecord {
	return []docsum.PageRecord{
		{
			URL:         "/docs/",
			Title:       "Introduction",
			Summary:     "Overview of the CLI and its config file.",
			LastUpdated: processedAt,
		},
		{
			URL:             "/docs/routing",
			Title:           `The "app" router`,
			Summary:         `Use "dynamic" segments.`,
			SummaryDegraded: true,
			LastUpdated:     processedAt.Add(time.Second),
		},
	}
}

// Story: Delimited Export
// Records are written as a quoted, pipe-separated file

func TestFormatRecords_QuotesEveryField(t *testing.T) {
	t.Parallel()

	got := fs.FormatRecords(sampleRecords(), "|", false)

	want := "URL|Title|Summary|Last Updated\n" +
		`"/docs/"|"Introduction"|"Overview of the CLI and its config file."|"2024-03-09T14:05:07.123Z"` + "\n" +
		`"/docs/routing"|"The ""app"" router"|"Use ""dynamic"" segments."|"2024-03-09T14:05:08.123Z"`
	assert.Equal(t, want, got)
}

func TestFormatRecords_SourceColumn(t *testing.T) {
	t.Parallel()

	got := fs.FormatRecords(sampleRecords(), ",", true)

	want := "URL,Title,Summary,Last Updated,Summary Source\n" +
		`"/docs/","Introduction","Overview of the CLI and its config file.","2024-03-09T14:05:07.123Z","ai"` + "\n" +
		`"/docs/routing","The ""app"" router","Use ""dynamic"" segments.","2024-03-09T14:05:08.123Z","fallback"`
	assert.Equal(t, want, got)
}

func TestFormatRecords_NoRecordsWritesHeaderOnly(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "URL|Title|Summary|Last Updated\n", fs.FormatRecords(nil, "|", false))
}

func TestFormatRecords_ConvertsTimestampToUTC(t *testing.T) {
	t.Parallel()

	local := time.FixedZone("CEST", 2*60*60)
	records := []docsum.PageRecord{{URL: "/docs/", LastUpdated: time.Date(2024, 3, 9, 16, 5, 7, 0, local)}}

	got := fs.FormatRecords(records, "|", false)

	assert.Contains(t, got, `"2024-03-09T14:05:07.000Z"`)
}

func TestCSVExporter_ExportWritesFile(t *testing.T) {
	t.Parallel()

	// Given an exporter targeting a file in an empty directory
	path := filepath.Join(t.TempDir(), "docs.csv")
	exp, err := fs.NewCSVExporter(path)
	require.NoError(t, err)

	// When I export records
	err = exp.Export(context.Background(), sampleRecords())

	// Then the file holds the formatted records
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FormatRecords(sampleRecords(), "|", false), string(data))
	assert.Equal(t, path, exp.Path())
}

func TestCSVExporter_ExportIsIdempotent(t *testing.T) {
	t.Parallel()

	// Given a file already exported once
	path := filepath.Join(t.TempDir(), "docs.csv")
	exp, err := fs.NewCSVExporter(path)
	require.NoError(t, err)
	require.NoError(t, exp.Export(context.Background(), sampleRecords()))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	// When I export the same records again
	require.NoError(t, exp.Export(context.Background(), sampleRecords()))

	// Then the file is byte-identical
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCSVExporter_ExportReplacesPreviousContent(t *testing.T) {
	t.Parallel()

	// Given a stale file from an earlier, longer run
	path := filepath.Join(t.TempDir(), "docs.csv")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer than the new export\n\n\n"), 0644))
	exp, err := fs.NewCSVExporter(path)
	require.NoError(t, err)

	// When I export a single record
	records := sampleRecords()[:1]
	require.NoError(t, exp.Export(context.Background(), records))

	// Then nothing of the old file remains
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FormatRecords(records, "|", false), string(data))
}

func TestCSVExporter_ExportLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exp, err := fs.NewCSVExporter(filepath.Join(dir, "docs.csv"))
	require.NoError(t, err)

	require.NoError(t, exp.Export(context.Background(), sampleRecords()))
	require.NoError(t, exp.Export(context.Background(), sampleRecords()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "docs.csv", entries[0].Name())
}

func TestCSVExporter_ExportFailsForMissingDirectory(t *testing.T) {
	t.Parallel()

	exp, err := fs.NewCSVExporter(filepath.Join(t.TempDir(), "missing", "docs.csv"))
	require.NoError(t, err)

	err = exp.Export(context.Background(), sampleRecords())

	assert.Error(t, err)
}

func TestCSVExporter_ExportRespectsCancelledContext(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs.csv")
	exp, err := fs.NewCSVExporter(path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = exp.Export(ctx, sampleRecords())

	require.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCSVExporter_ConcurrentExports(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "docs.csv")
	exp, err := fs.NewCSVExporter(path, fs.WithSourceColumn(true))
	require.NoError(t, err)

	records := sampleRecords()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, exp.Export(context.Background(), records))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, fs.FormatRecords(records, "|", true), string(data))
}

func TestNewCSVExporter_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path string
		sep  string
	}{
		{name: "empty path", path: "", sep: "|"},
		{name: "empty separator", path: "docs.csv", sep: ""},
		{name: "multi-character separator", path: "docs.csv", sep: "||"},
		{name: "quote separator", path: "docs.csv", sep: `"`},
		{name: "newline separator", path: "docs.csv", sep: "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := fs.NewCSVExporter(tt.path, fs.WithSeparator(tt.sep))

			assert.Equal(t, docsum.EINVALID, docsum.ErrorCode(err))
		})
	}
}
