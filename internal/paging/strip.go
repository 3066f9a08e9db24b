package paging

import (
	"strconv"
	"strings"
)

// Link is one entry of a page-number strip. Ellipsis entries carry no page.
type Link struct {
	Page     int  `json:"page,omitempty"`
	Current  bool `json:"current,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

// Strip lists the first page, the last page and the neighbours of current,
// inserting an ellipsis wherever numbers are skipped.
func Strip(current, total int) []Link {
	if total < 1 {
		total = 1
	}
	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}
	var links []Link
	prev := 0
	for p := 1; p <= total; p++ {
		if p != 1 && p != total && (p < current-1 || p > current+1) {
			continue
		}
		if prev > 0 && p > prev+1 {
			links = append(links, Link{Ellipsis: true})
		}
		links = append(links, Link{Page: p, Current: p == current})
		prev = p
	}
	return links
}

// FormatStrip renders a strip as text, e.g. "1 … 4 [5] 6 … 10".
func FormatStrip(links []Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		switch {
		case l.Ellipsis:
			parts = append(parts, "…")
		case l.Current:
			parts = append(parts, "["+strconv.Itoa(l.Page)+"]")
		default:
			parts = append(parts, strconv.Itoa(l.Page))
		}
	}
	return strings.Join(parts, " ")
}
