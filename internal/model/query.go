package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// MaxLeadCount caps how many leads a single search may request.
const MaxLeadCount = 100

// SearchQuery describes one lead search: where to look, what kind of
// business, and how many leads to return.
type SearchQuery struct {
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country"`
	Category  string `json:"category"`
	LeadCount int    `json:"lead_count"`
}

// Validate checks required fields and the lead count bounds.
func (q SearchQuery) Validate() error {
	if strings.TrimSpace(q.City) == "" {
		return eris.New("query: city is required")
	}
	if strings.TrimSpace(q.Country) == "" {
		return eris.New("query: country is required")
	}
	if strings.TrimSpace(q.Category) == "" {
		return eris.New("query: category is required")
	}
	if q.LeadCount < 1 || q.LeadCount > MaxLeadCount {
		return eris.Errorf("query: lead_count must be between 1 and %d", MaxLeadCount)
	}
	return nil
}

// Location renders the query's location as "City, State, Country", skipping
// the state when absent.
func (q SearchQuery) Location() string {
	parts := []string{q.City}
	if q.State != "" {
		parts = append(parts, q.State)
	}
	parts = append(parts, q.Country)
	return strings.Join(parts, ", ")
}

// Categories is the fixed business-category list offered to UI pickers.
// The core accepts any non-empty category string; this list is advisory.
var Categories = []string{
	"Restaurant",
	"Cafe",
	"Plumber",
	"Electrician",
	"HVAC Contractor",
	"Roofing Contractor",
	"Landscaping",
	"Cleaning Services",
	"Auto Repair",
	"Dentist",
	"Chiropractor",
	"Hair Salon",
	"Barber Shop",
	"Gym",
	"Law Firm",
	"Accounting Firm",
	"Real Estate Agency",
	"Insurance Agency",
	"Pet Grooming",
	"Florist",
	"Bakery",
	"Moving Company",
}
