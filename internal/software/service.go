// Package software serves the public software directory.
package software

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client used by the directory.
type Source interface {
	SoftwareList(ctx context.Context, f backend.SoftwareFilter) (backend.Page[backend.Software], error)
	Software(ctx context.Context, slug string) (backend.Software, error)
}

// Listing is one page of the directory.
type Listing struct {
	Filter     backend.SoftwareFilter
	Items      []backend.Software
	Pagination shared.Pagination
}

// Service reads the directory through the response cache.
type Service struct {
	source Source
	cache  *backend.Cache
}

// NewService constructs the service. cache may be nil.
func NewService(source Source, cache *backend.Cache) *Service {
	return &Service{source: source, cache: cache}
}

const maxSearchLen = 100

// List returns one page of software matching the filter.
func (s *Service) List(ctx context.Context, f backend.SoftwareFilter) (Listing, error) {
	f.Category = strings.ToLower(strings.TrimSpace(f.Category))
	f.Search = strings.TrimSpace(f.Search)
	if runes := []rune(f.Search); len(runes) > maxSearchLen {
		f.Search = string(runes[:maxSearchLen])
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Category != "" {
		if _, ok := shared.NormalizeSlug(f.Category); !ok {
			return Listing{Filter: f}, fmt.Errorf("software: category %q: %w", f.Category, httpx.ErrNotFound)
		}
	}
	page, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.Page[backend.Software], error) {
		return s.source.SoftwareList(ctx, f)
	}, "software", "list", f.Category, strings.ToLower(f.Search), strconv.Itoa(f.Page))
	if err != nil {
		return Listing{Filter: f}, fmt.Errorf("software: list: %w", err)
	}
	return Listing{
		Filter:     f,
		Items:      page.Items,
		Pagination: shared.NewPagination(f.Page, page.PerPage, page.Total),
	}, nil
}

// Get returns a software entry by slug.
func (s *Service) Get(ctx context.Context, slug string) (backend.Software, error) {
	key, ok := shared.NormalizeSlug(slug)
	if !ok {
		return backend.Software{}, fmt.Errorf("software: slug %q: %w", slug, httpx.ErrNotFound)
	}
	item, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.Software, error) {
		return s.source.Software(ctx, key)
	}, "software", "item", key)
	if err != nil {
		return backend.Software{}, fmt.Errorf("software: get: %w", err)
	}
	return item, nil
}
