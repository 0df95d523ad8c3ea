package contacts

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	exportTimeLayout = "2006-01-02 15:04:05"
	exportSheet      = "Sheet1"
	createdAtField   = "created_at"

	// XLSXContentType is the media type of exported workbooks.
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Table is a flat, spreadsheet-ready view of stored documents.
type Table struct {
	Columns []string
	Rows    [][]any
}

// OrderForExport puts documents with a datetime created_at first, newest
// first, followed by every other document in input order.
func OrderForExport(docs []bson.D) []bson.D {
	type dated struct {
		doc bson.D
		at  time.Time
	}
	var good []dated
	var bad []bson.D
	for _, doc := range docs {
		if at, ok := datetimeOf(lookup(doc, createdAtField)); ok {
			good = append(good, dated{doc: doc, at: at})
		} else {
			bad = append(bad, doc)
		}
	}
	sort.SliceStable(good, func(i, j int) bool {
		return good[i].at.After(good[j].at)
	})

	out := make([]bson.D, 0, len(docs))
	for _, d := range good {
		out = append(out, d.doc)
	}
	return append(out, bad...)
}

// Sanitize converts documents into a Table. Columns are the union of field
// names in first-seen order, without created_at.
func Sanitize(docs []bson.D) Table {
	var columns []string
	index := map[string]int{}
	for _, doc := range docs {
		for _, e := range doc {
			if e.Key == createdAtField {
				continue
			}
			if _, ok := index[e.Key]; !ok {
				index[e.Key] = len(columns)
				columns = append(columns, e.Key)
			}
		}
	}

	rows := make([][]any, 0, len(docs))
	for _, doc := range docs {
		row := make([]any, len(columns))
		for i := range row {
			row[i] = ""
		}
		for _, e := range doc {
			if i, ok := index[e.Key]; ok {
				row[i] = sanitizeValue(e.Value)
			}
		}
		rows = append(rows, row)
	}
	return Table{Columns: columns, Rows: rows}
}

func sanitizeValue(v any) any {
	if v == nil {
		return ""
	}
	if t, ok := datetimeOf(v); ok {
		return t.Format(exportTimeLayout)
	}
	switch val := v.(type) {
	case primitive.ObjectID:
		return val.Hex()
	case primitive.Null, primitive.Undefined:
		return ""
	case bson.D, bson.M, bson.A, map[string]any, []any:
		return flatten(val)
	default:
		return v
	}
}

// flatten renders a nested value as one readable cell.
func flatten(v any) string {
	switch val := v.(type) {
	case bson.D:
		parts := make([]string, 0, len(val))
		for _, e := range val {
			parts = append(parts, fmt.Sprintf("%s: %s", e.Key, flatten(e.Value)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case bson.M:
		return flatten(sortedDoc(val))
	case map[string]any:
		return flatten(sortedDoc(val))
	case bson.A:
		return flatten([]any(val))
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, flatten(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		s := sanitizeValue(v)
		if str, ok := s.(string); ok {
			return str
		}
		return fmt.Sprint(s)
	}
}

func sortedDoc(m map[string]any) bson.D {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	doc := make(bson.D, 0, len(m))
	for _, k := range keys {
		doc = append(doc, bson.E{Key: k, Value: m[k]})
	}
	return doc
}

func datetimeOf(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time().UTC(), true
	case time.Time:
		return t.UTC(), true
	}
	return time.Time{}, false
}

func lookup(doc bson.D, key string) any {
	for _, e := range doc {
		if e.Key == key {
			return e.Value
		}
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet workbook with a header row.
func (t Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if len(t.Columns) > 0 {
		header := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			header[i] = c
		}
		if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
			return fmt.Errorf("contacts: write header: %w", err)
		}
	}
	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("contacts: cell name: %w", err)
		}
		values := row
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("contacts: write row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("contacts: write workbook: %w", err)
	}
	return nil
}

// ExportFileName names an export by its timestamp.
func ExportFileName(now time.Time) string {
	return fmt.Sprintf("Master_Export_%s.xlsx", now.Format("20060102_150405"))
}
