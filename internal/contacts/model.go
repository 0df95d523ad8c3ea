package contacts

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a CRM contact as stored in the crm_data collection.
type Contact struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	CompanyName    string             `bson:"company_name" json:"company_name"`
	Name           string             `bson:"name" json:"name"`
	Designation    string             `bson:"designation" json:"designation"`
	Mobile         string             `bson:"mobile" json:"mobile"`
	Mobile2        *string            `bson:"mobile2" json:"mobile2"`
	Landline       *string            `bson:"landline" json:"landline"`
	Email          string             `bson:"email" json:"email"`
	Email2         *string            `bson:"email2" json:"email2"`
	LinkedIn       *string            `bson:"linkedin" json:"linkedin"`
	Address        string             `bson:"address" json:"address"`
	ExistingClient string             `bson:"existing_client" json:"existing_client"`
	PartnerName    *string            `bson:"partner_name" json:"partner_name"`
	CallDate       Date               `bson:"call_date" json:"call_date"`
	LeadEntryDate  Date               `bson:"lead_entry_date" json:"lead_entry_date"`
	Comments       *string            `bson:"comments" json:"comments"`
	Disposition    string             `bson:"disposition" json:"disposition"`
	CreatedAt      Date               `bson:"created_at" json:"created_at"`

	// Extra holds stored fields outside the form schema, in document order.
	Extra bson.D `bson:"-" json:"-"`
}

// SubmitRequest carries the raw form fields of a contact submission.
type SubmitRequest struct {
	CompanyName    string
	Name           string
	Designation    string
	Mobile         string
	Mobile2        string
	Landline       string
	Email          string
	Email2         string
	LinkedIn       string
	Address        string
	ExistingClient string
	PartnerName    string
	CallDate       string
	LeadEntryDate  string
	Comments       string
	Disposition    string
}

// Validate checks required fields and parses dates into a Contact without ID or created_at.
func (r SubmitRequest) Validate() (*Contact, error) {
	required := []struct {
		field string
		value string
	}{
		{"company_name", r.CompanyName},
		{"name", r.Name},
		{"designation", r.Designation},
		{"mobile", r.Mobile},
		{"email", r.Email},
		{"address", r.Address},
		{"existing_client", r.ExistingClient},
		{"call_date", r.CallDate},
		{"lead_entry_date", r.LeadEntryDate},
		{"disposition", r.Disposition},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return nil, invalidField(f.field, "is required")
		}
	}

	callDate, err := ParseDate(r.CallDate)
	if err != nil {
		return nil, invalidField("call_date", err.Error())
	}
	leadDate, err := ParseDate(r.LeadEntryDate)
	if err != nil {
		return nil, invalidField("lead_entry_date", err.Error())
	}

	return &Contact{
		CompanyName:    strings.TrimSpace(r.CompanyName),
		Name:           strings.TrimSpace(r.Name),
		Designation:    strings.TrimSpace(r.Designation),
		Mobile:         strings.TrimSpace(r.Mobile),
		Mobile2:        optional(r.Mobile2),
		Landline:       optional(r.Landline),
		Email:          normalizeEmail(r.Email),
		Email2:         optionalEmail(r.Email2),
		LinkedIn:       optional(r.LinkedIn),
		Address:        strings.TrimSpace(r.Address),
		ExistingClient: strings.TrimSpace(r.ExistingClient),
		PartnerName:    optional(r.PartnerName),
		CallDate:       NewDate(callDate),
		LeadEntryDate:  NewDate(leadDate),
		Comments:       optional(r.Comments),
		Disposition:    strings.TrimSpace(r.Disposition),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalEmail(s string) *string {
	if v := optional(s); v != nil {
		lower := strings.ToLower(*v)
		return &lower
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ParseID converts a path identifier to an ObjectID.
func ParseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(raw))
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
