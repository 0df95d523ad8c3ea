package contacts

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// JSONTimeLayout is how dates are rendered in API responses.
const JSONTimeLayout = "2006-01-02T15:04:05"

// inputLayouts are the accepted textual forms for dates, tried in order.
var inputLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an ISO-8601 date or date-time. Values without a zone are UTC.
func ParseDate(raw string) (time.Time, error) {
	t, err := parseDateInZone(raw)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// parseDateInZone keeps the offset written in raw, so callers can read the
// calendar day the user meant.
func parseDateInZone(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", raw)
}

// Date is a time stored as a BSON datetime. Decoding also accepts legacy
// string values so old rows render the same as new ones.
type Date struct {
	time.Time
}

// NewDate wraps t truncated to BSON millisecond precision.
func NewDate(t time.Time) Date {
	return Date{Time: t.UTC().Truncate(time.Millisecond)}
}

// MarshalBSONValue stores the date as a BSON datetime, or null when unset.
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(d.Time)
}

// UnmarshalBSONValue accepts datetime, string and null values. Any other
// BSON type decodes as unset.
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.DateTime:
		ms, _, ok := bsoncore.ReadDateTime(data)
		if !ok {
			return fmt.Errorf("contacts: malformed datetime")
		}
		d.Time = time.UnixMilli(ms).UTC()
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			return fmt.Errorf("contacts: malformed string date")
		}
		parsed, err := ParseDate(s)
		if err != nil {
			// unparseable legacy values decode as unset
			d.Time = time.Time{}
			return nil
		}
		d.Time = parsed
	default:
		d.Time = time.Time{}
	}
	return nil
}

// MarshalJSON renders the date as an ISO-8601 local timestamp, or null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(JSONTimeLayout))
}

// UnmarshalJSON accepts any layout ParseDate understands.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}
