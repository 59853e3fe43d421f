package entity

import "time"

// Tenant is an isolated business account; every other entity belongs to exactly one.
type Tenant struct {
	ID        string
	Name      string
	Slug      string // unique, used by the request layer to resolve subdomains
	Status    string // active, suspended
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
)
