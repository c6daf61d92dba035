// Package vehicle serves vehicle model pages and product specification
// categories.
package vehicle

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client used by these pages.
type Source interface {
	VehicleModel(ctx context.Context, slug string) (backend.VehicleModel, error)
	Specification(ctx context.Context, categorySlug string) (backend.SpecificationCategory, error)
}

// Service reads vehicles and specifications through the response cache.
type Service struct {
	source Source
	cache  *backend.Cache
}

// NewService constructs the service. cache may be nil.
func NewService(source Source, cache *backend.Cache) *Service {
	return &Service{source: source, cache: cache}
}

// Model returns a vehicle model by slug.
func (s *Service) Model(ctx context.Context, slug string) (backend.VehicleModel, error) {
	key, ok := shared.NormalizeSlug(slug)
	if !ok {
		return backend.VehicleModel{}, fmt.Errorf("vehicle: slug %q: %w", slug, httpx.ErrNotFound)
	}
	model, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.VehicleModel, error) {
		return s.source.VehicleModel(ctx, key)
	}, "vehicle", "model", key)
	if err != nil {
		return backend.VehicleModel{}, fmt.Errorf("vehicle: model: %w", err)
	}
	return model, nil
}

// Specification is a category page, optionally narrowed to one brand.
type Specification struct {
	Category backend.SpecificationCategory
	Brands   []string
	Brand    string
}

// Specification returns the products of a category. brand filters items
// case-insensitively; Brands always lists every brand of the category.
func (s *Service) Specification(ctx context.Context, categorySlug, brand string) (Specification, error) {
	key, ok := shared.NormalizeSlug(categorySlug)
	if !ok {
		return Specification{}, fmt.Errorf("vehicle: category %q: %w", categorySlug, httpx.ErrNotFound)
	}
	cat, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.SpecificationCategory, error) {
		return s.source.Specification(ctx, key)
	}, "specification", key)
	if err != nil {
		return Specification{}, fmt.Errorf("vehicle: specification: %w", err)
	}

	seen := make(map[string]bool)
	var brands []string
	for _, item := range cat.Items {
		if item.Brand != "" && !seen[strings.ToLower(item.Brand)] {
			seen[strings.ToLower(item.Brand)] = true
			brands = append(brands, item.Brand)
		}
	}
	sort.Strings(brands)

	brand = strings.TrimSpace(brand)
	if brand != "" {
		items := make([]backend.SpecificationItem, 0, len(cat.Items))
		for _, item := range cat.Items {
			if strings.EqualFold(item.Brand, brand) {
				items = append(items, item)
			}
		}
		cat.Items = items
	}
	return Specification{Category: cat, Brands: brands, Brand: brand}, nil
}
