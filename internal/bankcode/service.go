// Package bankcode serves the bank and SWIFT code directory.
package bankcode

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client used by the directory.
type Source interface {
	BankCountries(ctx context.Context) ([]backend.BankCountry, error)
	BanksByCountry(ctx context.Context, country string) ([]backend.Bank, error)
	BranchesByBank(ctx context.Context, country, bank string) ([]backend.BankBranch, error)
	BankBranch(ctx context.Context, country, bank, branch string) (backend.BankBranchDetail, error)
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

func slugs(in ...string) ([]string, error) {
	out := make([]string, len(in))
	for i, s := range in {
		slug, ok := shared.NormalizeSlug(s)
		if !ok {
			return nil, fmt.Errorf("bankcode: invalid slug %q: %w", s, httpx.ErrNotFound)
		}
		out[i] = slug
	}
	return out, nil
}

// Countries lists countries sorted by name.
func (s *Service) Countries(ctx context.Context) ([]backend.BankCountry, error) {
	list, err := backend.Cached(ctx, s.cache, s.source.BankCountries, "bankcode", "countries")
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Banks lists the banks of a country sorted by name.
func (s *Service) Banks(ctx context.Context, country string) ([]backend.Bank, error) {
	keys, err := slugs(country)
	if err != nil {
		return nil, err
	}
	list, err := backend.Cached(ctx, s.cache, func(ctx context.Context) ([]backend.Bank, error) {
		return s.source.BanksByCountry(ctx, keys[0])
	}, "bankcode", "banks", keys[0])
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// Branches lists the branches of a bank. A non-empty query keeps branches
// whose name, city or SWIFT code contains it.
func (s *Service) Branches(ctx context.Context, country, bank, query string) ([]backend.BankBranch, error) {
	keys, err := slugs(country, bank)
	if err != nil {
		return nil, err
	}
	list, err := backend.Cached(ctx, s.cache, func(ctx context.Context) ([]backend.BankBranch, error) {
		return s.source.BranchesByBank(ctx, keys[0], keys[1])
	}, "bankcode", "branches", keys[0], keys[1])
	if err != nil {
		return nil, err
	}
	return filterBranches(list, query), nil
}

// Branch returns the SWIFT code detail of a branch.
func (s *Service) Branch(ctx context.Context, country, bank, branch string) (backend.BankBranchDetail, error) {
	keys, err := slugs(country, bank, branch)
	if err != nil {
		return backend.BankBranchDetail{}, err
	}
	return backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.BankBranchDetail, error) {
		return s.source.BankBranch(ctx, keys[0], keys[1], keys[2])
	}, "bankcode", "branch", keys[0], keys[1], keys[2])
}

func filterBranches(list []backend.BankBranch, query string) []backend.BankBranch {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return list
	}
	out := make([]backend.BankBranch, 0, len(list))
	for _, b := range list {
		if strings.Contains(strings.ToLower(b.Branch), query) ||
			strings.Contains(strings.ToLower(b.City), query) ||
			strings.Contains(strings.ToLower(b.SwiftCode), query) {
			out = append(out, b)
		}
	}
	return out
}
