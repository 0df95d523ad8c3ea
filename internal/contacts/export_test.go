package contacts

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSanitize_Empty(t *testing.T) {
	table := Sanitize(nil)
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSanitize_ValueConversions(t *testing.T) {
	id := primitive.NewObjectID()
	at := time.Date(2024, 1, 15, 9, 30, 5, 0, time.UTC)
	docs := []bson.D{{
		{Key: "_id", Value: id},
		{Key: "call_date", Value: primitive.NewDateTimeFromTime(at)},
		{Key: "plain_time", Value: at},
		{Key: "mobile2", Value: nil},
		{Key: "landline", Value: primitive.Null{}},
		{Key: "tags", Value: bson.A{"hot", int32(3)}},
		{Key: "meta", Value: bson.D{{Key: "source", Value: "web"}, {Key: "ids", Value: bson.A{int32(1), int32(2)}}}},
		{Key: "score", Value: int32(7)},
		{Key: "name", Value: "Jane"},
	}}

	table := Sanitize(docs)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"_id", "call_date", "plain_time", "mobile2", "landline", "tags", "meta", "score", "name"}, table.Columns)
	assert.Equal(t, []any{
		id.Hex(),
		"2024-01-15 09:30:05",
		"2024-01-15 09:30:05",
		"",
		"",
		"[hot, 3]",
		"{source: web, ids: [1, 2]}",
		int32(7),
		"Jane",
	}, table.Rows[0])
}

func TestSanitize_ColumnUnionAndCreatedAtDropped(t *testing.T) {
	docs := []bson.D{
		{{Key: "name", Value: "A"}, {Key: "created_at", Value: primitive.NewDateTimeFromTime(time.Now())}},
		{{Key: "name", Value: "B"}, {Key: "extra", Value: "x"}},
		{{Key: "extra", Value: "y"}, {Key: "other", Value: "z"}},
	}

	table := Sanitize(docs)
	assert.Equal(t, []string{"name", "extra", "other"}, table.Columns)
	assert.Equal(t, [][]any{
		{"A", "", ""},
		{"B", "x", ""},
		{"", "y", "z"},
	}, table.Rows)
}

func TestOrderForExport(t *testing.T) {
	older := primitive.NewDateTimeFromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := primitive.NewDateTimeFromTime(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	docs := []bson.D{
		{{Key: "name", Value: "string-date"}, {Key: "created_at", Value: "2024-09-01"}},
		{{Key: "name", Value: "older"}, {Key: "created_at", Value: older}},
		{{Key: "name", Value: "missing"}},
		{{Key: "name", Value: "newer"}, {Key: "created_at", Value: newer}},
	}

	ordered := OrderForExport(docs)
	var names []any
	for _, d := range ordered {
		names = append(names, lookup(d, "name"))
	}
	assert.Equal(t, []any{"newer", "older", "string-date", "missing"}, names)
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	table := Sanitize([]bson.D{
		{{Key: "name", Value: "Jane"}, {Key: "company_name", Value: "ACME"}},
		{{Key: "name", Value: "Bob"}, {Key: "email", Value: "bob@x.com"}},
	})

	var buf bytes.Buffer
	require.NoError(t, table.WriteXLSX(&buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "company_name", "email"}, rows[0])
	require.GreaterOrEqual(t, len(rows[1]), 2)
	assert.Equal(t, []string{"Jane", "ACME"}, rows[1][:2])
	assert.Equal(t, []string{"Bob", "", "bob@x.com"}, rows[2])
}

func TestExportFileName(t *testing.T) {
	name := ExportFileName(time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC))
	assert.Equal(t, "Master_Export_20240305_140709.xlsx", name)
}
