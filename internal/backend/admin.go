package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/informreaders/portal/internal/platform/httpx"
)

// adminBearer returns the configured admin token. JWT tokens are inspected
// without verification so an expired token fails before the round trip;
// the backend remains the authority on signatures.
func (c *Client) adminBearer() (string, error) {
	token := strings.TrimSpace(c.adminToken)
	if token == "" {
		return "", fmt.Errorf("backend: admin token not configured: %w", httpx.ErrUnauthorized)
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		// opaque token
		return token, nil
	}
	if claims.ExpiresAt != nil && !claims.ExpiresAt.Time.After(c.now()) {
		return "", fmt.Errorf("backend: admin token expired at %s: %w", claims.ExpiresAt.Time.UTC().Format("2006-01-02T15:04:05Z"), httpx.ErrUnauthorized)
	}
	return token, nil
}

// AdminSoftwareList lists software for the back-office.
func (c *Client) AdminSoftwareList(ctx context.Context, search string, page int) (Page[Software], error) {
	q := url.Values{}
	if search = strings.TrimSpace(search); search != "" {
		q.Set("search", search)
	}
	var out Page[Software]
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/software", query: pageQuery(q, page), admin: true}, &out)
	return out, err
}

// AdminSoftwareGet returns a software entry by id.
func (c *Client) AdminSoftwareGet(ctx context.Context, id string) (Software, error) {
	var out Software
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/software/" + segment(id), admin: true}, &out)
	return out, err
}

// AdminSoftwareCreate creates a software entry.
func (c *Client) AdminSoftwareCreate(ctx context.Context, in SoftwareInput) (Software, error) {
	var out Software
	err := c.do(ctx, request{method: http.MethodPost, path: "/admin/software", body: in, admin: true}, &out)
	return out, err
}

// AdminSoftwareUpdate replaces a software entry.
func (c *Client) AdminSoftwareUpdate(ctx context.Context, id string, in SoftwareInput) (Software, error) {
	var out Software
	err := c.do(ctx, request{method: http.MethodPut, path: "/admin/software/" + segment(id), body: in, admin: true}, &out)
	return out, err
}

// AdminSoftwareDelete removes a software entry.
func (c *Client) AdminSoftwareDelete(ctx context.Context, id string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/admin/software/" + segment(id), admin: true}, nil)
}

// AdminProfile returns the admin profile.
func (c *Client) AdminProfile(ctx context.Context) (AdminProfile, error) {
	var out AdminProfile
	err := c.do(ctx, request{method: http.MethodGet, path: "/admin/profile", admin: true}, &out)
	return out, err
}

// UpdateAdminProfile updates the admin profile.
func (c *Client) UpdateAdminProfile(ctx context.Context, in AdminProfileInput) (AdminProfile, error) {
	var out AdminProfile
	err := c.do(ctx, request{method: http.MethodPut, path: "/admin/profile", body: in, admin: true}, &out)
	return out, err
}
