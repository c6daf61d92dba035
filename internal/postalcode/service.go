// Package postalcode serves the postal code lookup.
package postalcode

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client used by the lookup.
type Source interface {
	PostalCodesByRegion(ctx context.Context, country, region string, page int) (backend.Page[backend.PostalCode], error)
}

// Query is a normalised lookup request.
type Query struct {
	Country string
	Region  string
	Page    int
}

// Result is one page of postal codes.
type Result struct {
	Query      Query
	Codes      []backend.PostalCode
	Pagination shared.Pagination
}

// Service reads postal codes through the response cache.
type Service struct {
	source Source
	cache  *backend.Cache
}

// NewService constructs the service. cache may be nil.
func NewService(source Source, cache *backend.Cache) *Service {
	return &Service{source: source, cache: cache}
}

// Normalize validates the query. An empty country is a validation error.
func Normalize(country, region string, page int) (Query, error) {
	q := Query{
		Country: strings.ToLower(strings.TrimSpace(country)),
		Region:  strings.TrimSpace(region),
		Page:    page,
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Country == "" {
		return q, &httpx.FieldError{Field: "country", Message: "Please choose a country."}
	}
	if _, ok := shared.NormalizeSlug(q.Country); !ok {
		return q, &httpx.FieldError{Field: "country", Message: "Unknown country."}
	}
	if len(q.Region) > 120 {
		return q, &httpx.FieldError{Field: "region", Message: "Region name is too long."}
	}
	return q, nil
}

// Search returns one page of postal codes for a country and optional region.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	q, err := Normalize(q.Country, q.Region, q.Page)
	if err != nil {
		return Result{Query: q}, err
	}
	page, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.Page[backend.PostalCode], error) {
		return s.source.PostalCodesByRegion(ctx, q.Country, q.Region, q.Page)
	}, "postalcode", q.Country, strings.ToLower(q.Region), strconv.Itoa(q.Page))
	if err != nil {
		return Result{Query: q}, fmt.Errorf("postalcode: search: %w", err)
	}
	return Result{
		Query:      q,
		Codes:      page.Items,
		Pagination: shared.NewPagination(q.Page, page.PerPage, page.Total),
	}, nil
}
