// Package accounts searches and orders user lists for the approval and
// user administration screens.
package accounts

import (
	"fmt"
	"net/url"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jobmaroc/jobboard/internal/models"
)

// Sort keys. A leading "-" reverses the order.
const (
	SortName  = "name"
	SortEmail = "email"
	SortDate  = "date"
)

// Query is the search box and column sort of a user table.
type Query struct {
	Search string
	Sort   string
}

// ParseQuery reads search and sort from URL parameters.
func ParseQuery(values url.Values) (Query, error) {
	q := Query{Search: strings.TrimSpace(values.Get("search")), Sort: strings.TrimSpace(values.Get("sort"))}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate rejects unknown sort keys.
func (q Query) Validate() error {
	switch strings.TrimPrefix(strings.ToLower(q.Sort), "-") {
	case "", SortName, SortEmail, SortDate:
		return nil
	}
	return fmt.Errorf("unknown sort %q (valid: name, email, date, optionally prefixed with -)", q.Sort)
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Sort != "" {
		v.Set("sort", q.Sort)
	}
	return v
}

// Matches reports whether the search term is a case-insensitive substring of
// the user's name, email or nationality.
func (q Query) Matches(u models.User) bool {
	term := strings.TrimSpace(q.Search)
	if term == "" {
		return true
	}
	fold := cases.Fold()
	needle := fold.String(term)
	for _, field := range []string{u.FullName(), u.Email, u.Nationality} {
		if field != "" && strings.Contains(fold.String(field), needle) {
			return true
		}
	}
	return false
}

// Predicate adapts the query to paging.Filter. An empty search yields nil.
func (q Query) Predicate() func(models.User) bool {
	if strings.TrimSpace(q.Search) == "" {
		return nil
	}
	return q.Matches
}

// Apply filters users and sorts the result in place. Without a sort key the
// store order is kept.
func (q Query) Apply(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if q.Matches(u) {
			out = append(out, u)
		}
	}
	key := strings.ToLower(q.Sort)
	desc := strings.HasPrefix(key, "-")
	key = strings.TrimPrefix(key, "-")
	var cmp func(a, b models.User) int
	switch key {
	case SortName:
		fold := cases.Fold()
		cmp = func(a, b models.User) int {
			return strings.Compare(fold.String(a.FullName()), fold.String(b.FullName()))
		}
	case SortEmail:
		cmp = func(a, b models.User) int { return strings.Compare(a.Email, b.Email) }
	case SortDate:
		cmp = func(a, b models.User) int { return a.RegistrationDate.Compare(b.RegistrationDate) }
	default:
		return out
	}
	slices.SortStableFunc(out, func(a, b models.User) int {
		if desc {
			return cmp(b, a)
		}
		return cmp(a, b)
	})
	return out
}
