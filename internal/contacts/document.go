package contacts

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnmarshalBSON decodes a stored contact without rejecting rows written by
// other tools: numbers and flags in text fields become text, dates of any
// other type become unset and unknown fields land in Extra.
func (c *Contact) UnmarshalBSON(data []byte) error {
	elems, err := bson.Raw(data).Elements()
	if err != nil {
		return fmt.Errorf("contacts: malformed document: %w", err)
	}
	*c = Contact{}

	texts := map[string]*string{
		"company_name":    &c.CompanyName,
		"name":            &c.Name,
		"designation":     &c.Designation,
		"mobile":          &c.Mobile,
		"email":           &c.Email,
		"address":         &c.Address,
		"existing_client": &c.ExistingClient,
		"disposition":     &c.Disposition,
	}
	optionals := map[string]**string{
		"mobile2":      &c.Mobile2,
		"landline":     &c.Landline,
		"email2":       &c.Email2,
		"linkedin":     &c.LinkedIn,
		"partner_name": &c.PartnerName,
		"comments":     &c.Comments,
	}
	dates := map[string]*Date{
		"call_date":       &c.CallDate,
		"lead_entry_date": &c.LeadEntryDate,
		"created_at":      &c.CreatedAt,
	}

	for _, e := range elems {
		key, val := e.Key(), e.Value()
		if key == "_id" {
			if oid, ok := val.ObjectIDOK(); ok {
				c.ID = oid
				continue
			}
		}
		if dst, ok := texts[key]; ok {
			*dst, _ = textOf(val)
			continue
		}
		if dst, ok := optionals[key]; ok {
			if s, ok := textOf(val); ok {
				*dst = &s
			}
			continue
		}
		if dst, ok := dates[key]; ok {
			if err := dst.UnmarshalBSONValue(val.Type, val.Value); err != nil {
				return fmt.Errorf("contacts: field %s: %w", key, err)
			}
			continue
		}

		var v any
		if err := val.Unmarshal(&v); err != nil {
			v = val.String()
		}
		c.Extra = append(c.Extra, bson.E{Key: key, Value: v})
	}
	return nil
}

// textOf renders a scalar as text. ok is false for null and undefined.
func textOf(val bson.RawValue) (string, bool) {
	switch val.Type {
	case bsontype.String:
		return val.StringValue(), true
	case bsontype.Int32:
		return strconv.FormatInt(int64(val.Int32()), 10), true
	case bsontype.Int64:
		return strconv.FormatInt(val.Int64(), 10), true
	case bsontype.Double:
		return strconv.FormatFloat(val.Double(), 'f', -1, 64), true
	case bsontype.Boolean:
		return strconv.FormatBool(val.Boolean()), true
	case bsontype.Decimal128:
		return val.Decimal128().String(), true
	case bsontype.DateTime:
		return val.Time().UTC().Format(JSONTimeLayout), true
	case bsontype.ObjectID:
		return val.ObjectID().Hex(), true
	case bsontype.Null, bsontype.Undefined:
		return "", false
	default:
		return val.String(), true
	}
}

// MarshalJSON renders the schema fields followed by any Extra fields.
func (c Contact) MarshalJSON() ([]byte, error) {
	type plain Contact
	known, err := json.Marshal(plain(c))
	if err != nil || len(c.Extra) == 0 {
		return known, err
	}

	out := map[string]json.RawMessage{}
	if err := json.Unmarshal(known, &out); err != nil {
		return nil, err
	}
	if c.ID.IsZero() {
		delete(out, "_id")
	}
	for _, e := range c.Extra {
		if _, taken := out[e.Key]; taken {
			continue
		}
		b, err := json.Marshal(jsonValue(e.Value))
		if err != nil {
			return nil, fmt.Errorf("contacts: field %s: %w", e.Key, err)
		}
		out[e.Key] = b
	}
	return json.Marshal(out)
}

// jsonValue converts decoded BSON values into plain JSON shapes.
func jsonValue(v any) any {
	switch val := v.(type) {
	case primitive.DateTime:
		return val.Time().UTC().Format(JSONTimeLayout)
	case primitive.ObjectID:
		return val.Hex()
	case bson.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = jsonValue(e.Value)
		}
		return m
	case bson.M:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = jsonValue(item)
		}
		return m
	case bson.A:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = jsonValue(item)
		}
		return out
	case primitive.Decimal128:
		return val.String()
	case primitive.Null, primitive.Undefined:
		return nil
	default:
		return v
	}
}
