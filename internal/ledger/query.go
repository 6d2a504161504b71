package ledger

import (
	"math"
	"sort"
	"strings"

	"github.com/gofrs/uuid/v5"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filter narrows a listing. Empty fields do not filter. Values outside the closed
// enumerations are kept as-is and simply match nothing.
type Filter struct {
	Category      Category
	Settlement    Settlement
	Kind          Kind
	TitleContains string
}

// PageRequest selects one page of a listing.
type PageRequest struct {
	Page  int
	Limit int
}

// Normalize clamps non-positive page and limit values to their defaults.
func (p PageRequest) Normalize() PageRequest {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	return p
}

// Offset is the number of matching records skipped before this page. It saturates at
// math.MaxInt, which is past the end of any listing.
func (p PageRequest) Offset() int {
	p = p.Normalize()
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Page is one page of matching transactions and the count of all matches.
type Page struct {
	Items []Transaction
	Total int
	Page  int
	Limit int
}

// Matches reports whether t belongs to owner and satisfies every set filter field.
func (f Filter) Matches(owner uuid.UUID, t Transaction) bool {
	if t.OwnerID != owner {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	if f.Settlement != "" && t.Settlement != f.Settlement {
		return false
	}
	if f.Kind != "" && t.Kind != f.Kind {
		return false
	}
	if f.TitleContains != "" && !strings.Contains(strings.ToLower(t.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	return true
}

// SortNewestFirst orders records by date descending. Records on the same day keep insertion
// order (by Seq, then by position in the input).
func SortNewestFirst(records []Transaction) {
	sort.SliceStable(records, func(i, j int) bool {
		di, dj := records[i].Day(), records[j].Day()
		if c := di.Compare(dj); c != 0 {
			return c > 0
		}
		return records[i].Seq < records[j].Seq
	})
}

// Query filters records to one owner, orders them newest first and returns the requested page
// together with the total number of matches. The input slice is not modified.
func Query(records []Transaction, owner uuid.UUID, filter Filter, req PageRequest) Page {
	req = req.Normalize()

	matched := make([]Transaction, 0, len(records))
	for _, r := range records {
		if filter.Matches(owner, r) {
			matched = append(matched, r)
		}
	}
	SortNewestFirst(matched)

	page := Page{
		Items: []Transaction{},
		Total: len(matched),
		Page:  req.Page,
		Limit: req.Limit,
	}

	start := req.Offset()
	if start < 0 || start >= len(matched) {
		return page
	}
	end := start + req.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page.Items = append(page.Items, matched[start:end]...)
	return page
}
