package shared

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is used when a listing does not specify a page size.
const DefaultPerPage = 20

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
	baseURL    string
}

// NewPagination computes pagination metadata.
func NewPagination(page, perPage, total int) Pagination {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}
	if total < 0 {
		total = 0
	}
	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	return Pagination{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// PageFromQuery reads the "page" query parameter, defaulting to 1.
func PageFromQuery(q url.Values) int {
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// HasPrev reports whether a previous page exists.
func (p Pagination) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p Pagination) HasNext() bool { return p.Page < p.TotalPages }

// PrevPage returns the previous page number.
func (p Pagination) PrevPage() int {
	if p.Page <= 1 {
		return 1
	}
	return p.Page - 1
}

// NextPage returns the next page number.
func (p Pagination) NextPage() int { return p.Page + 1 }

// WithBase binds the listing URL used to build page links. The page
// parameter of q is replaced per link; other parameters are kept.
func (p Pagination) WithBase(path string, q url.Values) Pagination {
	clone := url.Values{}
	for k, v := range q {
		if k == "page" {
			continue
		}
		clone[k] = append([]string(nil), v...)
	}
	p.baseURL = path
	if encoded := clone.Encode(); encoded != "" {
		p.baseURL += "?" + encoded
	}
	return p
}

// URL returns the link to page n of the listing.
func (p Pagination) URL(n int) string {
	base := p.baseURL
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	if n <= 1 {
		return base
	}
	return base + sep + "page=" + strconv.Itoa(n)
}
