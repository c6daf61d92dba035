// Package coupon serves the coupon and cashback pages.
package coupon

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/platform/httpx"
	"github.com/informreaders/portal/internal/shared"
)

// Source is the subset of the backend client used by the coupon pages.
type Source interface {
	Coupons(ctx context.Context, store string, page int) (backend.Page[backend.Coupon], error)
	Coupon(ctx context.Context, id string) (backend.Coupon, error)
}

// View is a coupon annotated for display.
type View struct {
	backend.Coupon
	Expired bool
	Percent *decimal.Decimal
}

// Listing is one page of coupons.
type Listing struct {
	Store      string
	Coupons    []View
	Pagination shared.Pagination
}

// Service reads coupons through the response cache.
type Service struct {
	source Source
	cache  *backend.Cache
	now    func() time.Time
}

// NewService constructs the service. cache may be nil.
func NewService(source Source, cache *backend.Cache) *Service {
	return &Service{source: source, cache: cache, now: time.Now}
}

// List returns a page of coupons, optionally for one store.
func (s *Service) List(ctx context.Context, store string, page int) (Listing, error) {
	store = strings.TrimSpace(store)
	if page < 1 {
		page = 1
	}
	// The backend and the cache key see the same folded store name.
	query := strings.ToLower(store)
	res, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.Page[backend.Coupon], error) {
		return s.source.Coupons(ctx, query, page)
	}, "coupon", "list", query, strconv.Itoa(page))
	if err != nil {
		return Listing{Store: store}, fmt.Errorf("coupon: list: %w", err)
	}
	now := s.now()
	views := make([]View, 0, len(res.Items))
	for _, c := range res.Items {
		views = append(views, annotate(c, now))
	}
	return Listing{
		Store:      store,
		Coupons:    views,
		Pagination: shared.NewPagination(page, res.PerPage, res.Total),
	}, nil
}

// Get returns a single coupon.
func (s *Service) Get(ctx context.Context, id string) (View, error) {
	key, ok := shared.NormalizeSlug(id)
	if !ok {
		return View{}, fmt.Errorf("coupon: invalid id %q: %w", id, httpx.ErrNotFound)
	}
	c, err := backend.Cached(ctx, s.cache, func(ctx context.Context) (backend.Coupon, error) {
		return s.source.Coupon(ctx, key)
	}, "coupon", "item", key)
	if err != nil {
		return View{}, fmt.Errorf("coupon: get: %w", err)
	}
	return annotate(c, s.now()), nil
}

// Savings applies the coupon's percentage to price. Coupons with a flat or
// free-text discount cannot be applied and return ErrInvalidInput.
func Savings(v View, price string) (calculator.DiscountResult, error) {
	if v.Percent == nil {
		return calculator.DiscountResult{}, fmt.Errorf("%w: this coupon has no percentage discount", calculator.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(price), ",", ""))
	if err != nil {
		return calculator.DiscountResult{}, fmt.Errorf("%w: please enter a valid price", calculator.ErrInvalidInput)
	}
	return calculator.Discount(amount, *v.Percent)
}

func annotate(c backend.Coupon, now time.Time) View {
	return View{Coupon: c, Expired: c.Expired(now), Percent: parsePercent(c.Discount)}
}

// parsePercent reads discounts such as "20%", "20 % off" or "Up to 15%".
func parsePercent(s string) *decimal.Decimal {
	i := strings.Index(s, "%")
	if i <= 0 {
		return nil
	}
	head := strings.TrimSpace(s[:i])
	start := len(head)
	for start > 0 {
		ch := head[start-1]
		if (ch >= '0' && ch <= '9') || ch == '.' {
			start--
			continue
		}
		break
	}
	if start == len(head) {
		return nil
	}
	d, err := decimal.NewFromString(head[start:])
	if err != nil || d.Sign() <= 0 || d.GreaterThan(decimal.NewFromInt(100)) {
		return nil
	}
	return &d
}
