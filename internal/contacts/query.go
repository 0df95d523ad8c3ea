package contacts

import (
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter holds the optional listing filters exactly as received.
type Filter struct {
	Search      string
	Company     string
	Phone       string
	Disposition string
	CallStart   string
	CallEnd     string
	LeadStart   string
	LeadEnd     string
	Start       string
	End         string
}

// endOfDay is added to the created_at upper bound so the whole day is included.
const endOfDay = 24*time.Hour - time.Millisecond

type dateRange struct {
	from, to time.Time
}

// criteria is the parsed form of a Filter shared by BuildFilter and Matches.
type criteria struct {
	search      string
	company     string
	phone       string
	disposition string
	call        *dateRange
	lead        *dateRange
	created     *dateRange
}

func (f Filter) parse() (criteria, error) {
	c := criteria{
		search:      f.Search,
		company:     f.Company,
		phone:       f.Phone,
		disposition: f.Disposition,
	}
	if strings.TrimSpace(c.search) == "" {
		c.search = ""
	}
	if strings.TrimSpace(c.company) == "" {
		c.company = ""
	}
	if strings.TrimSpace(c.phone) == "" {
		c.phone = ""
	}
	if strings.TrimSpace(c.disposition) == "" {
		c.disposition = ""
	}

	var err error
	if c.call, err = parseRange("call", f.CallStart, f.CallEnd, 0); err != nil {
		return criteria{}, err
	}
	if c.lead, err = parseRange("lead", f.LeadStart, f.LeadEnd, 0); err != nil {
		return criteria{}, err
	}
	if c.created, err = parseRange("", f.Start, f.End, endOfDay); err != nil {
		return criteria{}, err
	}
	return c, nil
}

// parseRange returns nil unless both bounds are supplied.
func parseRange(prefix, start, end string, extend time.Duration) (*dateRange, error) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		return nil, nil
	}
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "_" + name
	}
	from, err := ParseDate(start)
	if err != nil {
		return nil, invalidField(field("start"), err.Error())
	}
	local, err := parseDateInZone(end)
	if err != nil {
		return nil, invalidField(field("end"), err.Error())
	}
	to := local.UTC()
	if extend > 0 {
		// the day as written, not the day after conversion to UTC
		to = time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).Add(extend)
	}
	return &dateRange{from: from, to: to}, nil
}

// BuildFilter turns listing filters into a MongoDB query document.
//
// Free-text search and the phone filter share a single $or: when both are
// given a record matching either one is returned.
func BuildFilter(f Filter) (bson.D, error) {
	c, err := f.parse()
	if err != nil {
		return nil, err
	}

	query := bson.D{}
	var or bson.A
	if c.search != "" {
		or = append(or,
			bson.D{{Key: "name", Value: ciRegex(c.search)}},
			bson.D{{Key: "company_name", Value: ciRegex(c.search)}},
			bson.D{{Key: "mobile", Value: plainRegex(c.search)}},
			bson.D{{Key: "email", Value: ciRegex(c.search)}},
		)
	}
	if c.phone != "" {
		or = append(or,
			bson.D{{Key: "mobile", Value: plainRegex(c.phone)}},
			bson.D{{Key: "mobile2", Value: plainRegex(c.phone)}},
		)
	}
	if len(or) > 0 {
		query = append(query, bson.E{Key: "$or", Value: or})
	}
	if c.company != "" {
		query = append(query, bson.E{Key: "company_name", Value: ciRegex(c.company)})
	}
	if c.disposition != "" {
		query = append(query, bson.E{Key: "disposition", Value: c.disposition})
	}
	if c.call != nil {
		query = append(query, bson.E{Key: "call_date", Value: c.call.document()})
	}
	if c.lead != nil {
		query = append(query, bson.E{Key: "lead_entry_date", Value: c.lead.document()})
	}
	if c.created != nil {
		query = append(query, bson.E{Key: "created_at", Value: c.created.document()})
	}
	return query, nil
}

func (r *dateRange) document() bson.D {
	return bson.D{{Key: "$gte", Value: r.from}, {Key: "$lte", Value: r.to}}
}

func (r *dateRange) contains(d Date) bool {
	if d.IsZero() {
		return false
	}
	return !d.Before(r.from) && !d.After(r.to)
}

func ciRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

func plainRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s)}
}

// Matches evaluates the same predicate as BuildFilter against one contact.
func (f Filter) Matches(contact *Contact) (bool, error) {
	c, err := f.parse()
	if err != nil {
		return false, err
	}

	var alternatives []bool
	if c.search != "" {
		alternatives = append(alternatives,
			containsFold(contact.Name, c.search),
			containsFold(contact.CompanyName, c.search),
			strings.Contains(contact.Mobile, c.search),
			containsFold(contact.Email, c.search),
		)
	}
	if c.phone != "" {
		alternatives = append(alternatives,
			strings.Contains(contact.Mobile, c.phone),
			contact.Mobile2 != nil && strings.Contains(*contact.Mobile2, c.phone),
		)
	}
	if len(alternatives) > 0 && !anyTrue(alternatives) {
		return false, nil
	}
	if c.company != "" && !containsFold(contact.CompanyName, c.company) {
		return false, nil
	}
	if c.disposition != "" && contact.Disposition != c.disposition {
		return false, nil
	}
	if c.call != nil && !c.call.contains(contact.CallDate) {
		return false, nil
	}
	if c.lead != nil && !c.lead.contains(contact.LeadEntryDate) {
		return false, nil
	}
	if c.created != nil && !c.created.contains(contact.CreatedAt) {
		return false, nil
	}
	return true, nil
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func anyTrue(values []bool) bool {
	for _, v := range values {
		if v {
			return true
		}
	}
	return false
}
