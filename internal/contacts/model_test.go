package contacts

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func validSubmit() SubmitRequest {
	return SubmitRequest{
		CompanyName:    " ACME Corp ",
		Name:           "Jane Doe",
		Designation:    "CTO",
		Mobile:         "9876543210",
		Mobile2:        "  ",
		Email:          " Jane.Doe@ACME.io ",
		Email2:         "JD@Mail.COM",
		Address:        "1 Main St",
		ExistingClient: "No",
		CallDate:       "2024-01-15",
		LeadEntryDate:  "2024-01-10",
		Comments:       "call back friday",
		Disposition:    "Interested",
	}
}

func TestSubmitRequestValidate(t *testing.T) {
	c, err := validSubmit().Validate()
	require.NoError(t, err)

	assert.Equal(t, "ACME Corp", c.CompanyName)
	assert.Equal(t, "jane.doe@acme.io", c.Email)
	require.NotNil(t, c.Email2)
	assert.Equal(t, "jd@mail.com", *c.Email2)
	assert.Nil(t, c.Mobile2, "blank optional fields are stored as null")
	assert.Nil(t, c.Landline)
	require.NotNil(t, c.Comments)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), c.CallDate.Time)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), c.LeadEntryDate.Time)
	assert.True(t, c.CreatedAt.IsZero())
	assert.True(t, c.ID.IsZero())
}

func TestSubmitRequestValidate_Errors(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*SubmitRequest)
		field string
	}{
		{"missing company", func(r *SubmitRequest) { r.CompanyName = "" }, "company_name"},
		{"blank name", func(r *SubmitRequest) { r.Name = "   " }, "name"},
		{"missing disposition", func(r *SubmitRequest) { r.Disposition = "" }, "disposition"},
		{"bad call date", func(r *SubmitRequest) { r.CallDate = "15/01/2024" }, "call_date"},
		{"bad lead date", func(r *SubmitRequest) { r.LeadEntryDate = "soon" }, "lead_entry_date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSubmit()
			tt.edit(&req)
			_, err := req.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseID(t *testing.T) {
	id := primitive.NewObjectID()
	got, err := ParseID(id.Hex())
	require.NoError(t, err)
	assert.Equal(t, id, got)

	for _, raw := range []string{"", "123", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidID, raw)
	}
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for _, raw := range []string{"2024-01-15T10:30:00", "2024-01-15 10:30:00", "2024-01-15T10:30", "2024-01-15T10:30:00Z", "2024-01-15T16:00:00+05:30"} {
		got, err := ParseDate(raw)
		require.NoError(t, err, raw)
		assert.True(t, want.Equal(got), "%s parsed as %s", raw, got)
	}
	_, err := ParseDate("Jan 15")
	assert.Error(t, err)
}

type dateHolder struct {
	D Date `bson:"d"`
}

func TestDateBSONStorageRepresentations(t *testing.T) {
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	docs := []bson.D{
		{{Key: "d", Value: primitive.NewDateTimeFromTime(want)}},
		{{Key: "d", Value: "2024-01-15"}},
	}
	for _, doc := range docs {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err)
		var h dateHolder
		require.NoError(t, bson.Unmarshal(raw, &h))
		assert.True(t, want.Equal(h.D.Time))

		out, err := json.Marshal(h.D)
		require.NoError(t, err)
		assert.Equal(t, `"2024-01-15T00:00:00"`, string(out))
	}
}

func TestDateBSONRoundTrip(t *testing.T) {
	in := dateHolder{D: NewDate(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC))}
	raw, err := bson.Marshal(in)
	require.NoError(t, err)

	var doc bson.D
	require.NoError(t, bson.Unmarshal(raw, &doc))
	_, isDateTime := doc[0].Value.(primitive.DateTime)
	assert.True(t, isDateTime, "dates are stored as BSON datetimes")

	var out dateHolder
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.True(t, in.D.Equal(out.D.Time))
}

func TestDateNullBadStringAndOtherTypes(t *testing.T) {
	for _, doc := range []bson.D{
		{{Key: "d", Value: nil}},
		{{Key: "d", Value: "not a date"}},
		{{Key: "d", Value: int64(1705276800000)}},
		{{Key: "d", Value: true}},
	} {
		raw, err := bson.Marshal(doc)
		require.NoError(t, err)
		var h dateHolder
		require.NoError(t, bson.Unmarshal(raw, &h))
		assert.True(t, h.D.IsZero())

		out, err := json.Marshal(h.D)
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))
	}
}

func TestContactDecodesLooseDocument(t *testing.T) {
	id := primitive.NewObjectID()
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: id},
		{Key: "company_name", Value: "ACME"},
		{Key: "mobile", Value: int64(9876543210)},
		{Key: "mobile2", Value: nil},
		{Key: "landline", Value: int32(2201)},
		{Key: "existing_client", Value: true},
		{Key: "call_date", Value: "2024-01-15"},
		{Key: "created_at", Value: int64(42)},
		{Key: "source", Value: "import"},
		{Key: "meta", Value: bson.D{{Key: "batch", Value: int32(7)}}},
	})
	require.NoError(t, err)

	var c Contact
	require.NoError(t, bson.Unmarshal(raw, &c))
	assert.Equal(t, id, c.ID)
	assert.Equal(t, "9876543210", c.Mobile)
	assert.Nil(t, c.Mobile2)
	require.NotNil(t, c.Landline)
	assert.Equal(t, "2201", *c.Landline)
	assert.Equal(t, "true", c.ExistingClient)
	assert.True(t, c.CreatedAt.IsZero())
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), c.CallDate.Time)
	require.Len(t, c.Extra, 2)
	assert.Equal(t, "source", c.Extra[0].Key)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	var rendered map[string]any
	require.NoError(t, json.Unmarshal(out, &rendered))
	assert.Equal(t, id.Hex(), rendered["_id"])
	assert.Equal(t, "import", rendered["source"])
	assert.Equal(t, map[string]any{"batch": float64(7)}, rendered["meta"])
	assert.Equal(t, "2024-01-15T00:00:00", rendered["call_date"])
	assert.Nil(t, rendered["created_at"])
}

func TestContactJSONWithoutExtraKeepsFieldOrder(t *testing.T) {
	c, err := validSubmit().Validate()
	require.NoError(t, err)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), `{"_id":"000000000000000000000000","company_name":"ACME Corp"`), string(out))
}
