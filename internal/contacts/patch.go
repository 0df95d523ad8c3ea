package contacts

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// Field is one optional member of a Patch. Set reports whether the caller supplied it.
type Field[T any] struct {
	Set   bool
	Value T
}

func (f *Field[T]) assign(v T) {
	f.Set = true
	f.Value = v
}

// Patch is a partial contact update. Only fields with Set=true are written.
type Patch struct {
	CompanyName    Field[string]
	Name           Field[string]
	Designation    Field[string]
	Mobile         Field[string]
	Mobile2        Field[*string]
	Landline       Field[*string]
	Email          Field[string]
	Email2         Field[*string]
	LinkedIn       Field[*string]
	Address        Field[string]
	ExistingClient Field[string]
	PartnerName    Field[*string]
	CallDate       Field[Date]
	LeadEntryDate  Field[Date]
	Comments       Field[*string]
	Disposition    Field[string]
}

// immutableFields may appear in an update body but are never written.
var immutableFields = map[string]bool{"_id": true, "created_at": true}

// ParsePatch decodes a JSON object into a Patch, rejecting keys outside the allow-list.
func ParsePatch(body []byte) (Patch, error) {
	var p Patch
	raw := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return p, invalidField("body", "must be a JSON object")
		}
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if immutableFields[key] {
			continue
		}
		if err := p.setField(key, raw[key]); err != nil {
			return Patch{}, err
		}
	}
	return p, nil
}

func (p *Patch) setField(key string, value json.RawMessage) error {
	required := map[string]*Field[string]{
		"company_name":    &p.CompanyName,
		"name":            &p.Name,
		"designation":     &p.Designation,
		"mobile":          &p.Mobile,
		"address":         &p.Address,
		"existing_client": &p.ExistingClient,
		"disposition":     &p.Disposition,
	}
	optionalStrings := map[string]*Field[*string]{
		"mobile2":      &p.Mobile2,
		"landline":     &p.Landline,
		"linkedin":     &p.LinkedIn,
		"partner_name": &p.PartnerName,
		"comments":     &p.Comments,
	}

	switch {
	case required[key] != nil:
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		if s == nil || strings.TrimSpace(*s) == "" {
			return invalidField(key, "cannot be blank")
		}
		required[key].assign(strings.TrimSpace(*s))
	case optionalStrings[key] != nil:
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		if s == nil {
			optionalStrings[key].assign(nil)
		} else {
			optionalStrings[key].assign(optional(*s))
		}
	case key == "email":
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		if s == nil || strings.TrimSpace(*s) == "" {
			return invalidField(key, "cannot be blank")
		}
		p.Email.assign(normalizeEmail(*s))
	case key == "email2":
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		if s == nil {
			p.Email2.assign(nil)
		} else {
			p.Email2.assign(optionalEmail(*s))
		}
	case key == "call_date" || key == "lead_entry_date":
		s, err := decodeString(key, value)
		if err != nil {
			return err
		}
		if s == nil {
			return invalidField(key, "cannot be null")
		}
		t, err := ParseDate(*s)
		if err != nil {
			return invalidField(key, err.Error())
		}
		if key == "call_date" {
			p.CallDate.assign(NewDate(t))
		} else {
			p.LeadEntryDate.assign(NewDate(t))
		}
	default:
		return invalidField(key, "is not an updatable field")
	}
	return nil
}

func decodeString(key string, value json.RawMessage) (*string, error) {
	var s *string
	if err := json.Unmarshal(value, &s); err != nil {
		return nil, invalidField(key, "must be a string")
	}
	return s, nil
}

// IsEmpty reports whether the patch sets no field.
func (p Patch) IsEmpty() bool {
	return len(p.SetDocument()) == 0
}

// SetDocument renders the patch as the body of a $set operator.
func (p Patch) SetDocument() bson.D {
	var set bson.D
	addString := func(name string, f Field[string]) {
		if f.Set {
			set = append(set, bson.E{Key: name, Value: f.Value})
		}
	}
	addOptional := func(name string, f Field[*string]) {
		if f.Set {
			set = append(set, bson.E{Key: name, Value: f.Value})
		}
	}
	addDate := func(name string, f Field[Date]) {
		if f.Set {
			set = append(set, bson.E{Key: name, Value: f.Value.Time})
		}
	}

	addString("company_name", p.CompanyName)
	addString("name", p.Name)
	addString("designation", p.Designation)
	addString("mobile", p.Mobile)
	addOptional("mobile2", p.Mobile2)
	addOptional("landline", p.Landline)
	addString("email", p.Email)
	addOptional("email2", p.Email2)
	addOptional("linkedin", p.LinkedIn)
	addString("address", p.Address)
	addString("existing_client", p.ExistingClient)
	addOptional("partner_name", p.PartnerName)
	addDate("call_date", p.CallDate)
	addDate("lead_entry_date", p.LeadEntryDate)
	addOptional("comments", p.Comments)
	addString("disposition", p.Disposition)
	return set
}

// Apply merges the patch into c and reports whether any stored value changed.
func (p Patch) Apply(c *Contact) bool {
	changed := false
	str := func(dst *string, f Field[string]) {
		if f.Set && *dst != f.Value {
			*dst = f.Value
			changed = true
		}
	}
	opt := func(dst **string, f Field[*string]) {
		if f.Set && !equalOptional(*dst, f.Value) {
			*dst = f.Value
			changed = true
		}
	}
	date := func(dst *Date, f Field[Date]) {
		if f.Set && !dst.Equal(f.Value.Time) {
			*dst = f.Value
			changed = true
		}
	}

	str(&c.CompanyName, p.CompanyName)
	str(&c.Name, p.Name)
	str(&c.Designation, p.Designation)
	str(&c.Mobile, p.Mobile)
	opt(&c.Mobile2, p.Mobile2)
	opt(&c.Landline, p.Landline)
	str(&c.Email, p.Email)
	opt(&c.Email2, p.Email2)
	opt(&c.LinkedIn, p.LinkedIn)
	str(&c.Address, p.Address)
	str(&c.ExistingClient, p.ExistingClient)
	opt(&c.PartnerName, p.PartnerName)
	date(&c.CallDate, p.CallDate)
	date(&c.LeadEntryDate, p.LeadEntryDate)
	opt(&c.Comments, p.Comments)
	str(&c.Disposition, p.Disposition)
	return changed
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
