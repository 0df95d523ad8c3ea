package contacts

const (
	// DefaultLimit is the page size used when none is requested.
	DefaultLimit = 50
	// MaxLimit is the largest accepted page size.
	MaxLimit = 200
)

// Page is a validated page/limit pair.
type Page struct {
	Number int
	Limit  int
}

// NewPage validates page (>= 1) and limit (1..MaxLimit).
func NewPage(page, limit int) (Page, error) {
	if page < 1 {
		return Page{}, invalidField("page", "must be at least 1")
	}
	if limit < 1 || limit > MaxLimit {
		return Page{}, invalidField("limit", "must be between 1 and 200")
	}
	return Page{Number: page, Limit: limit}, nil
}

// Skip is the number of records before this page.
func (p Page) Skip() int64 {
	return int64(p.Number-1) * int64(p.Limit)
}

// PageCount returns ceil(total/limit), 0 for an empty result.
func PageCount(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
