package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func segment(s string) string {
	return url.PathEscape(strings.TrimSpace(s))
}

func pageQuery(q url.Values, page int) url.Values {
	if q == nil {
		q = url.Values{}
	}
	if page > 1 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

// Signup registers a reader account.
func (c *Client) Signup(ctx context.Context, in SignupRequest) (User, error) {
	var out User
	err := c.do(ctx, request{method: http.MethodPost, path: "/user/auth/signup", body: in}, &out)
	return out, err
}

// BankCountries lists countries that have bank code listings.
func (c *Client) BankCountries(ctx context.Context) ([]BankCountry, error) {
	var out []BankCountry
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/bankCode"}, &out)
	return out, err
}

// BanksByCountry lists the banks of a country.
func (c *Client) BanksByCountry(ctx context.Context, country string) ([]Bank, error) {
	var out []Bank
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/bankCode/" + segment(country)}, &out)
	return out, err
}

// BranchesByBank lists the branches of a bank.
func (c *Client) BranchesByBank(ctx context.Context, country, bank string) ([]BankBranch, error) {
	var out []BankBranch
	path := "/website/bankCode/" + segment(country) + "/" + segment(bank)
	err := c.do(ctx, request{method: http.MethodGet, path: path}, &out)
	return out, err
}

// BankBranch returns a branch and its SWIFT code.
func (c *Client) BankBranch(ctx context.Context, country, bank, branch string) (BankBranchDetail, error) {
	var out BankBranchDetail
	path := "/website/bankCode/" + segment(country) + "/" + segment(bank) + "/" + segment(branch)
	err := c.do(ctx, request{method: http.MethodGet, path: path}, &out)
	return out, err
}

// Coupons lists coupons, optionally for a single store.
func (c *Client) Coupons(ctx context.Context, store string, page int) (Page[Coupon], error) {
	q := url.Values{}
	if store = strings.TrimSpace(store); store != "" {
		q.Set("store", store)
	}
	var out Page[Coupon]
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/coupon", query: pageQuery(q, page)}, &out)
	return out, err
}

// Coupon returns a single coupon.
func (c *Client) Coupon(ctx context.Context, id string) (Coupon, error) {
	var out Coupon
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/coupon/" + segment(id)}, &out)
	return out, err
}

// PostalCodesByRegion lists postal codes of a region.
func (c *Client) PostalCodesByRegion(ctx context.Context, country, region string, page int) (Page[PostalCode], error) {
	q := url.Values{}
	q.Set("country", strings.TrimSpace(country))
	if region = strings.TrimSpace(region); region != "" {
		q.Set("region", region)
	}
	var out Page[PostalCode]
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/postalCode/region", query: pageQuery(q, page)}, &out)
	return out, err
}

// Specification returns a specification category with its products.
func (c *Client) Specification(ctx context.Context, categorySlug string) (SpecificationCategory, error) {
	var out SpecificationCategory
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/specification/" + segment(categorySlug)}, &out)
	return out, err
}

// SoftwareFilter narrows the software listing.
type SoftwareFilter struct {
	Category string
	Search   string
	Page     int
}

// SoftwareList lists software entries.
func (c *Client) SoftwareList(ctx context.Context, f SoftwareFilter) (Page[Software], error) {
	q := url.Values{}
	if v := strings.TrimSpace(f.Category); v != "" {
		q.Set("category", v)
	}
	if v := strings.TrimSpace(f.Search); v != "" {
		q.Set("search", v)
	}
	var out Page[Software]
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/software", query: pageQuery(q, f.Page)}, &out)
	return out, err
}

// Software returns a single software entry by slug.
func (c *Client) Software(ctx context.Context, slug string) (Software, error) {
	var out Software
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/software/" + segment(slug)}, &out)
	return out, err
}

// VehicleModel returns a vehicle model by slug.
func (c *Client) VehicleModel(ctx context.Context, slug string) (VehicleModel, error) {
	var out VehicleModel
	err := c.do(ctx, request{method: http.MethodGet, path: "/website/vehicle/model/" + segment(slug)}, &out)
	return out, err
}
