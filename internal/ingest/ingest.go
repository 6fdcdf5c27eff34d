// Package ingest loads census, claims and utilization rows from CSV, XLSX
// and JSON files into the loose row shapes the analysis consumes.
package ingest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"

	"github.com/sells-group/workforce-intel/internal/model"
)

// Load reads rows from path, choosing the parser by file extension.
// Tabular files must carry a header row; headers become snake_case keys.
func Load(ctx context.Context, path string) ([]model.Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		opts := CSVOptions{TrimSpace: true}
		if ext == ".tsv" {
			opts.Delimiter = '\t'
		}
		return ReadCSV(ctx, f, opts)
	case ".xlsx":
		records, err := ReadXLSX(path, XLSXOptions{})
		if err != nil {
			return nil, err
		}
		return Rows(records), nil
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		items, errs := DecodeJSONArray[model.Row](ctx, f)
		return collect(items, errs)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", ext)
	}
}

// LoadRaw is Load for rows whose values are passed through untouched, such
// as utilization metrics. Tabular cells become JSON strings.
func LoadRaw(ctx context.Context, path string) ([]model.RawRow, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "ingest: open %s", path)
		}
		defer f.Close() //nolint:errcheck
		items, errs := DecodeJSONArray[model.RawRow](ctx, f)
		return collect(items, errs)
	}

	rows, err := Load(ctx, path)
	if err != nil {
		return nil, err
	}
	out := make([]model.RawRow, 0, len(rows))
	for _, row := range rows {
		raw := make(model.RawRow, len(row))
		for k, v := range row {
			b, err := json.Marshal(v)
			if err != nil {
				return nil, eris.Wrapf(err, "ingest: encode %s", k)
			}
			raw[k] = b
		}
		out = append(out, raw)
	}
	return out, nil
}

// Rows zips a header row with the records that follow it. Blank cells are
// left out so alias lookups fall through to the next candidate column.
func Rows(records [][]string) []model.Row {
	if len(records) == 0 {
		return []model.Row{}
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = NormalizeHeader(h)
	}

	out := make([]model.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(model.Row, len(header))
		for i, cell := range rec {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if cell = strings.TrimSpace(cell); cell != "" {
				row[header[i]] = cell
			}
		}
		if len(row) > 0 {
			out = append(out, row)
		}
	}
	return out
}

// NormalizeHeader lower-cases a column title and joins its words with
// underscores: "Date of Birth" -> "date_of_birth".
func NormalizeHeader(h string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.TrimSpace(h) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('_')
			}
			pending = false
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		pending = true
	}
	return b.String()
}

func collect[T any](items <-chan T, errs <-chan error) ([]T, error) {
	out := []T{}
	for item := range items {
		out = append(out, item)
	}
	for err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
