package coupon

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/informreaders/portal/internal/backend"
	"github.com/informreaders/portal/internal/calculator"
	"github.com/informreaders/portal/internal/shared"
	"github.com/informreaders/portal/internal/view"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type stubSource struct {
	store string
	page  int
}

func ts(t time.Time) *time.Time { return &t }

func (s *stubSource) Coupons(ctx context.Context, store string, page int) (backend.Page[backend.Coupon], error) {
	s.store, s.page = store, page
	return backend.Page[backend.Coupon]{
		Items: []backend.Coupon{
			{ID: "c1", Title: "10% off shoes", CouponCode: "SHOE10", Discount: "10%", ExpiresAt: ts(fixedNow.Add(48 * time.Hour))},
			{ID: "c2", Title: "Winter sale", CouponCode: "WINTER", ExpiresAt: ts(fixedNow.Add(-time.Hour))},
		},
		Total: 2, Page: page, PerPage: 20,
	}, nil
}

func (s *stubSource) Coupon(ctx context.Context, id string) (backend.Coupon, error) {
	return backend.Coupon{ID: id, Title: "Flat 20% off", Store: "Acme", CouponCode: "ACME20", Discount: "Flat 20% off"}, nil
}

func newService(src Source) *Service {
	svc := NewService(src, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestListFlagsExpired(t *testing.T) {
	src := &stubSource{}
	listing, err := newService(src).List(context.Background(), " amazon ", 0)
	require.NoError(t, err)
	assert.Equal(t, "amazon", src.store)
	assert.Equal(t, 1, src.page)
	require.Len(t, listing.Coupons, 2)
	assert.False(t, listing.Coupons[0].Expired)
	assert.True(t, listing.Coupons[1].Expired)
}

func TestParsePercent(t *testing.T) {
	cases := map[string]string{"20%": "20", "Up to 15.5% off": "15.5", "Flat 20 % off": "20"}
	for in, want := range cases {
		got := parsePercent(in)
		require.NotNil(t, got, in)
		assert.Equal(t, want, got.String(), in)
	}
	for _, in := range []string{"", "$5 off", "%", "150%"} {
		assert.Nil(t, parsePercent(in), in)
	}
}

func TestSavings(t *testing.T) {
	v := annotate(backend.Coupon{Discount: "20%"}, fixedNow)
	res, err := Savings(v, "1,249.99")
	require.NoError(t, err)
	assert.Equal(t, "250.00", res.Savings.StringFixed(2))
	assert.Equal(t, "999.99", res.FinalPrice.StringFixed(2))

	_, err = Savings(v, "abc")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)

	_, err = Savings(annotate(backend.Coupon{Discount: "$5 off"}, fixedNow), "10")
	assert.ErrorIs(t, err, calculator.ErrInvalidInput)
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	templates, err := view.NewEngine()
	require.NoError(t, err)
	h := NewHandler(nil, newService(&stubSource{}), templates, shared.NewCSRFManager("secret"))
	r := chi.NewRouter()
	r.Route("/coupons", h.MountRoutes)
	return r
}

func TestCouponPages(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coupons?store=amazon", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SHOE10")
	assert.Contains(t, rec.Body.String(), "Expired")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coupons/c9?price=500", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ACME20")
	assert.Contains(t, rec.Body.String(), "400.00")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/coupons/c9?price=lots", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please enter a valid price")
}

type countingSource struct {
	stubSource
	stores []string
}

func (c *countingSource) Coupons(ctx context.Context, store string, page int) (backend.Page[backend.Coupon], error) {
	c.stores = append(c.stores, store)
	return c.stubSource.Coupons(ctx, store, page)
}

func TestListFoldsStoreCaseForBackendAndCache(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	src := &countingSource{}
	svc := NewService(src, backend.NewCache(client, time.Minute, nil))
	svc.now = func() time.Time { return fixedNow }

	first, err := svc.List(context.Background(), "Amazon", 1)
	require.NoError(t, err)
	_, err = svc.List(context.Background(), "amazon", 1)
	require.NoError(t, err)

	assert.Equal(t, []string{"amazon"}, src.stores)
	assert.Equal(t, "Amazon", first.Store)
}
