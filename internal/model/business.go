package model

import "strings"

// SocialMedia holds the social profile URLs a source reported for a
// business. Empty strings mean the source found nothing.
type SocialMedia struct {
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// BusinessRecord is a raw, unscored candidate produced by a source
// provider. Records are treated as immutable once produced.
type BusinessRecord struct {
	BusinessName string      `json:"business_name"`
	Address      string      `json:"address"`
	Phone        string      `json:"phone"`
	Email        string      `json:"email,omitempty"`
	SocialMedia  SocialMedia `json:"social_media"`
	Website      string      `json:"website,omitempty"`
	MapsURL      string      `json:"maps_url,omitempty"`
	Category     string      `json:"category"`
}

// IdentityKey returns the dedup key for a record: the lowercased business
// name concatenated with the phone string exactly as the source reported
// it. Intentionally coarse; see dedupe.Dedupe.
func (r BusinessRecord) IdentityKey() string {
	return strings.ToLower(r.BusinessName) + r.Phone
}
