package contacts

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParsePatch(t *testing.T) {
	p, err := ParsePatch([]byte(`{
		"name": " Janet ",
		"email": "JANET@ACME.IO",
		"mobile2": "",
		"comments": null,
		"call_date": "2024-02-01",
		"_id": "ignored",
		"created_at": "ignored"
	}`))
	require.NoError(t, err)

	assert.Equal(t, bson.D{
		{Key: "name", Value: "Janet"},
		{Key: "mobile2", Value: (*string)(nil)},
		{Key: "email", Value: "janet@acme.io"},
		{Key: "call_date", Value: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Key: "comments", Value: (*string)(nil)},
	}, p.SetDocument())
}

func TestParsePatch_Empty(t *testing.T) {
	for _, body := range []string{"", "{}", "null", `{"_id": "x"}`} {
		p, err := ParsePatch([]byte(body))
		require.NoError(t, err, body)
		assert.True(t, p.IsEmpty(), body)
	}
}

func TestParsePatch_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown field", `{"$where": "1"}`, "$where"},
		{"blank required", `{"name": "  "}`, "name"},
		{"null email", `{"email": null}`, "email"},
		{"bad date", `{"lead_entry_date": "tomorrow"}`, "lead_entry_date"},
		{"null date", `{"call_date": null}`, "call_date"},
		{"non-string", `{"mobile": 98765}`, "mobile"},
		{"not an object", `[1,2]`, "body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePatch([]byte(tt.body))
			require.Error(t, err)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestPatchApply(t *testing.T) {
	comments := "old"
	c := &Contact{Name: "Jane", Comments: &comments, CallDate: NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}

	same, err := ParsePatch([]byte(`{"name": "Jane", "comments": "old", "call_date": "2024-01-01"}`))
	require.NoError(t, err)
	assert.False(t, same.Apply(c), "identical values report no change")

	changed, err := ParsePatch([]byte(`{"comments": "new", "call_date": "2024-01-02"}`))
	require.NoError(t, err)
	assert.True(t, changed.Apply(c))
	assert.Equal(t, "new", *c.Comments)
	assert.Equal(t, 2, c.CallDate.Day())
	assert.Equal(t, "Jane", c.Name)
}
