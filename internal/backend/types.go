package backend

import (
	"strings"
	"time"
)

// Page is a paginated listing returned by the backend.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
}

// SignupRequest registers a reader account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account returned after signup.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// BankCountry is a country with bank code listings.
type BankCountry struct {
	Slug      string `json:"slug"`
	Name      string `json:"name"`
	ISO       string `json:"iso"`
	BankCount int    `json:"bankCount"`
}

// Bank is a bank within a country.
type Bank struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Country     string `json:"country"`
	BranchCount int    `json:"branchCount"`
}

// BankBranch is a branch with its routing codes.
type BankBranch struct {
	Slug        string `json:"slug"`
	Bank        string `json:"bank"`
	Branch      string `json:"branch"`
	SwiftCode   string `json:"swiftCode"`
	RoutingCode string `json:"routingCode"`
	Address     string `json:"address"`
	City        string `json:"city"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	PostalCode  string `json:"postalCode"`
}

// BankBranchDetail is a branch plus sibling branches of the same bank.
type BankBranchDetail struct {
	BankBranch
	Related []BankBranch `json:"related"`
}

// Coupon is a store coupon or deal.
type Coupon struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	CouponCode  string     `json:"couponcode"`
	Store       string     `json:"store"`
	StoreURL    string     `json:"storeUrl"`
	Discount    string     `json:"discount"`
	Verified    bool       `json:"verified"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Expired reports whether the coupon is past its expiry at now.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// IsDeal reports whether the coupon is a deal without a code.
func (c Coupon) IsDeal() bool {
	return strings.TrimSpace(c.CouponCode) == ""
}

// PostalCode is a single postal code entry.
type PostalCode struct {
	Code      string  `json:"postalCode"`
	Place     string  `json:"place"`
	Region    string  `json:"region"`
	District  string  `json:"district"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SpecificationItem is a product in a specification category.
type SpecificationItem struct {
	Slug       string            `json:"slug"`
	Name       string            `json:"name"`
	Brand      string            `json:"brand"`
	Image      string            `json:"image"`
	Price      string            `json:"price"`
	Highlights map[string]string `json:"highlights"`
}

// SpecificationCategory groups products that share a spec sheet.
type SpecificationCategory struct {
	Slug        string              `json:"slug"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Items       []SpecificationItem `json:"items"`
}

// Software is a software catalogue entry.
type Software struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Logo        string    `json:"logo"`
	Category    string    `json:"category"`
	Version     string    `json:"version"`
	License     string    `json:"license"`
	Developer   string    `json:"developer"`
	OS          []string  `json:"os"`
	Size        string    `json:"size"`
	DownloadURL string    `json:"downloadUrl"`
	Website     string    `json:"website"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SoftwareInput is the admin payload for creating or updating software.
type SoftwareInput struct {
	Name        string   `json:"name" form:"name" validate:"required,max=120"`
	Slug        string   `json:"slug" form:"slug" validate:"required,max=120,slug"`
	Category    string   `json:"category" form:"category" validate:"required,max=60,slug"`
	Version     string   `json:"version" form:"version" validate:"max=40"`
	License     string   `json:"license" form:"license" validate:"max=60"`
	Developer   string   `json:"developer" form:"developer" validate:"max=120"`
	OS          []string `json:"os" form:"os"`
	Size        string   `json:"size" form:"size" validate:"max=40"`
	Logo        string   `json:"logo" form:"logo" validate:"omitempty,url"`
	DownloadURL string   `json:"downloadUrl" form:"download_url" validate:"omitempty,url"`
	Website     string   `json:"website" form:"website" validate:"omitempty,url"`
	Description string   `json:"description" form:"description" validate:"max=5000"`
}

// SpecRow is a label/value pair within a spec group.
type SpecRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// SpecGroup is a titled block of vehicle specifications.
type SpecGroup struct {
	Title string    `json:"title"`
	Rows  []SpecRow `json:"rows"`
}

// VehicleVariant is a trim level of a vehicle model.
type VehicleVariant struct {
	Name         string `json:"name"`
	Price        string `json:"price"`
	Fuel         string `json:"fuel"`
	Transmission string `json:"transmission"`
}

// VehicleModel is a car or bike model.
type VehicleModel struct {
	Slug     string           `json:"slug"`
	Brand    string           `json:"brand"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Image    string           `json:"image"`
	Price    string           `json:"price"`
	Variants []VehicleVariant `json:"variants"`
	Specs    []SpecGroup      `json:"specs"`
}

// AdminProfile is the profile of the backend admin account.
type AdminProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Avatar string `json:"avatar"`
	Bio    string `json:"bio"`
}

// AdminProfileInput updates the admin profile.
type AdminProfileInput struct {
	Name  string `json:"name" form:"name" validate:"required,max=120"`
	Email string `json:"email" form:"email" validate:"required,email"`
	Phone string `json:"phone" form:"phone" validate:"max=30"`
	Bio   string `json:"bio" form:"bio" validate:"max=2000"`
}
