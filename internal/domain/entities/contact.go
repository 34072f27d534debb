package entities

import "time"

// Contact is a CRM contact. Canonical contact data lives in its own table
// rather than the generic records table; the registry exposes it as an
// externally-managed schema so contacts still participate in the handle and
// mention graph.
type Contact struct {
	ID          string         `json:"id"`
	CompanyName string         `json:"company_name"`
	ContactName string         `json:"contact_name,omitempty"`
	Email       string         `json:"email,omitempty"`
	Phone       string         `json:"phone,omitempty"`
	Handle      string         `json:"handle,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DisplayName picks the best human-readable label for the contact.
func (c *Contact) DisplayName() string {
	for _, candidate := range []string{c.ContactName, c.CompanyName, c.Email, c.Handle} {
		if candidate != "" {
			return candidate
		}
	}
	return c.ID
}

// ContactCard is the contact summary attached to handle directory entries.
type ContactCard struct {
	CompanyName string `json:"companyName"`
	ContactName string `json:"contactName"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
}

// OrderContactLink connects an order to a contact mentioned in its notes or
// logs. Primary links come from the order itself; secondary links are derived
// from contact mentions.
type OrderContactLink struct {
	OrderID      string    `json:"order_id"`
	ContactID    string    `json:"contact_id"`
	Relationship string    `json:"relationship"`
	CreatedAt    time.Time `json:"created_at"`
}
