package offers

import (
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jobmaroc/jobboard/internal/models"
	"github.com/jobmaroc/jobboard/internal/paging"
)

// Query is the search box plus the modality and sector selects of an offer list.
type Query struct {
	Search   string `json:"search,omitempty"`
	Modality string `json:"modality,omitempty"`
	Sector   string `json:"sector,omitempty"`
}

// Empty reports whether the query filters nothing.
func (q Query) Empty() bool {
	return strings.TrimSpace(q.Search) == "" && strings.TrimSpace(q.Modality) == "" && strings.TrimSpace(q.Sector) == ""
}

// Matches reports whether o passes every non-empty criterion. The search term
// is a case-insensitive substring of title, description, location, company
// name, any skill or any contract type name.
func (q Query) Matches(o models.Offer) bool {
	if m := strings.TrimSpace(q.Modality); m != "" && !equalFold(string(o.Modality), m) {
		return false
	}
	if s := strings.TrimSpace(q.Sector); s != "" && !equalFold(o.SectorActivity, s) {
		return false
	}
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return true
	}
	needle := foldString(term)
	for _, field := range []string{o.Title, o.Description, o.Location, o.CompanyName} {
		if contains(field, needle) {
			return true
		}
	}
	for _, skill := range o.Skills {
		if contains(skill, needle) {
			return true
		}
	}
	for _, ct := range o.ContractTypes {
		if contains(ct.Name, needle) {
			return true
		}
	}
	return false
}

// Predicate adapts the query to paging.Filter. An empty query yields nil (keep all).
func (q Query) Predicate() func(models.Offer) bool {
	if q.Empty() {
		return nil
	}
	return q.Matches
}

// Apply filters offers in their fetched order and returns the requested page.
func (q Query) Apply(all []models.Offer, page, size int) paging.Page[models.Offer] {
	return paging.Paginate(paging.Filter(all, q.Predicate()), page, size)
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Modality != "" {
		v.Set("modality", q.Modality)
	}
	if q.Sector != "" {
		v.Set("sector", q.Sector)
	}
	return v
}

// ParseQuery reads search, modality, sector, page and page_size.
// Missing or invalid page numbers fall back to page 1 and the default size.
func ParseQuery(values url.Values) (Query, int, int) {
	q := Query{
		Search:   strings.TrimSpace(values.Get("search")),
		Modality: strings.TrimSpace(values.Get("modality")),
		Sector:   strings.TrimSpace(firstNonEmpty(values.Get("sector"), values.Get("sectorActivity"))),
	}
	page := 1
	if n, err := strconv.Atoi(values.Get("page")); err == nil && n > 0 {
		page = n
	}
	size := paging.DefaultPageSize
	if n, err := strconv.Atoi(values.Get("page_size")); err == nil && n > 0 && n <= 100 {
		size = n
	}
	return q, page, size
}

func contains(haystack, foldedNeedle string) bool {
	return haystack != "" && strings.Contains(foldString(haystack), foldedNeedle)
}

func equalFold(a, b string) bool {
	return foldString(a) == foldString(b)
}

// foldString builds a fresh Caser per call; a Caser must not be shared across goroutines.
func foldString(s string) string {
	return cases.Fold().String(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
