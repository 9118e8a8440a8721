package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/layerscout/core"
)

// Header names recognised for each record field, compared after cleanHeader.
var columnCandidates = map[string][]string{
	"name":     {"name", "layer", "layer name", "layer title", "title", "dataset"},
	"agency":   {"agency", "provider", "source", "data provider", "owner"},
	"endpoint": {"service endpoint", "endpoint", "url", "service url", "rest url", "link"},
	"status":   {"status", "state"},
	"dua":      {"dua", "dua required", "data use agreement"},
	"gii":      {"gii", "gii required", "restricted"},
}

type columns struct {
	name, agency, endpoint, status, dua, gii int
}

// ReadFile parses a catalog file. Files ending in .tsv are tab-delimited,
// everything else is read as comma-delimited.
func ReadFile(path string) ([]core.CatalogRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	records, err := ReadDelimited(f, DelimiterFor(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// DelimiterFor returns the field delimiter implied by a catalog file name.
func DelimiterFor(path string) rune {
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		return '\t'
	}
	return ','
}

// ReadCSV parses comma-delimited catalog data with a header row.
func ReadCSV(r io.Reader) ([]core.CatalogRecord, error) {
	return ReadDelimited(r, ',')
}

// ReadDelimited parses delimited catalog data. The first row must be a header
// that names at least the layer name column; other columns are optional.
// Rows with a blank name are skipped.
func ReadDelimited(r io.Reader, comma rune) ([]core.CatalogRecord, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	cols, err := resolveColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]core.CatalogRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, cols.name)
		if name == "" {
			continue
		}
		records = append(records, core.CatalogRecord{
			Name:            name,
			Agency:          cell(row, cols.agency),
			ServiceEndpoint: cell(row, cols.endpoint),
			Status:          core.ParseStatus(cell(row, cols.status)),
			DUARequired:     parseFlag(cell(row, cols.dua)),
			GIIRequired:     parseFlag(cell(row, cols.gii)),
		})
	}
	return records, nil
}

func resolveColumns(header []string) (columns, error) {
	cleaned := make([]string, len(header))
	for i, h := range header {
		cleaned[i] = cleanHeader(h)
	}
	cols := columns{
		name:     findColumn(cleaned, columnCandidates["name"]),
		agency:   findColumn(cleaned, columnCandidates["agency"]),
		endpoint: findColumn(cleaned, columnCandidates["endpoint"]),
		status:   findColumn(cleaned, columnCandidates["status"]),
		dua:      findColumn(cleaned, columnCandidates["dua"]),
		gii:      findColumn(cleaned, columnCandidates["gii"]),
	}
	if cols.name < 0 {
		return cols, fmt.Errorf("%w: header %v", ErrMissingNameColumn, header)
	}
	return cols, nil
}

// findColumn returns the first header index matching a candidate, preferring
// earlier candidates.
func findColumn(header []string, candidates []string) int {
	for _, want := range candidates {
		for i, col := range header {
			if col == want {
				return i
			}
		}
	}
	return -1
}

func cleanHeader(v string) string {
	v = cleanCell(v)
	v = strings.ToLower(v)
	v = strings.NewReplacer("_", " ", "-", " ").Replace(v)
	return strings.Join(strings.Fields(v), " ")
}

func cleanCell(v string) string {
	v = strings.TrimPrefix(v, "\ufeff")
	return strings.TrimSpace(v)
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return cleanCell(row[i])
}

func parseFlag(v string) bool {
	switch strings.ToLower(v) {
	case "y", "yes", "true", "1", "x", "required":
		return true
	default:
		return false
	}
}
