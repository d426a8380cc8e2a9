// Package fs provides file-based export of crawl records.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fwojciec/docsum"
)

// DefaultSeparator is the field separator of the exported file.
const DefaultSeparator = docsum.Separator

// Ensure CSVExporter implements docsum.Exporter at compile time.
var _ docsum.Exporter = (*CSVExporter)(nil)

// CSVExporter writes records as a delimited file with every field quoted.
// Each export replaces the file atomically: records are written to a
// temporary file in the same directory, which is then renamed over Path,
// so readers never observe a partial file.
type CSVExporter struct {
	path         string
	separator    string
	sourceColumn bool

	mu sync.Mutex // serializes checkpoint and final exports
}

// ExporterOption configures a CSVExporter.
type ExporterOption func(*CSVExporter)

// WithSeparator sets the field separator. Defaults to DefaultSeparator.
func WithSeparator(sep string) ExporterOption {
	return func(e *CSVExporter) {
		e.separator = sep
	}
}

// WithSourceColumn appends a "Summary Source" column holding "ai" or
// "fallback" for each record.
func WithSourceColumn(enabled bool) ExporterOption {
	return func(e *CSVExporter) {
		e.sourceColumn = enabled
	}
}

// NewCSVExporter creates a CSVExporter writing to path.
func NewCSVExporter(path string, opts ...ExporterOption) (*CSVExporter, error) {
	e := &CSVExporter{path: path, separator: DefaultSeparator}
	for _, opt := range opts {
		opt(e)
	}

	if path == "" {
		return nil, docsum.Errorf(docsum.EINVALID, "output path required")
	}
	if utf8.RuneCountInString(e.separator) != 1 || strings.ContainsAny(e.separator, "\"\r\n") {
		return nil, docsum.Errorf(docsum.EINVALID, "separator must be a single character other than quote or newline: %q", e.separator)
	}
	return e, nil
}

// Path returns the destination file.
func (e *CSVExporter) Path() string {
	return e.path
}

// Export writes the header and one row per record, in order.
func (e *CSVExporter) Export(ctx context.Context, records []docsum.PageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := FormatRecords(records, e.separator, e.sourceColumn)

	e.mu.Lock()
	defer e.mu.Unlock()
	return writeFileAtomic(e.path, []byte(data))
}

// FormatRecords renders records in the export format: an unquoted header
// line, then one line per record with every field quoted and embedded
// quotes doubled. Lines are joined by "\n" with no trailing newline.
func FormatRecords(records []docsum.PageRecord, separator string, sourceColumn bool) string {
	header := []string{"URL", "Title", "Summary", "Last Updated"}
	if sourceColumn {
		header = append(header, "Summary Source")
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, separator))
	b.WriteString("\n")

	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		fields := []string{r.URL, r.Title, r.Summary, r.Timestamp()}
		if sourceColumn {
			fields = append(fields, summarySource(r))
		}
		for j, f := range fields {
			if j > 0 {
				b.WriteString(separator)
			}
			b.WriteString(quote(f))
		}
	}
	return b.String()
}

func summarySource(r docsum.PageRecord) string {
	if r.SummaryDegraded {
		return "fallback"
	}
	return "ai"
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// writeFileAtomic writes data to a temp file next to path and renames it
// into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure below.
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming to %s: %w", path, err)
	}
	committed = true
	return nil
}
