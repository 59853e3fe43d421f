package dto

import "time"

// OnboardTenantRequest creates a tenant with its default accounts.
type OnboardTenantRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
	Slug string `json:"slug" validate:"required,min=2,max=63,hostname_rfc1123"`
}

// TenantResponse is a tenant plus, after onboarding, its default accounts.
type TenantResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Slug      string            `json:"slug"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	Accounts  []AccountResponse `json:"accounts,omitempty"`
}
