package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_Validate(t *testing.T) {
	valid := SearchQuery{
		City:      "Portland",
		State:     "OR",
		Country:   "USA",
		Category:  "Plumber",
		LeadCount: 10,
	}

	tests := []struct {
		name    string
		mutate  func(*SearchQuery)
		wantErr string
	}{
		{"valid", func(*SearchQuery) {}, ""},
		{"no state is fine", func(q *SearchQuery) { q.State = "" }, ""},
		{"missing city", func(q *SearchQuery) { q.City = "  " }, "city"},
		{"missing country", func(q *SearchQuery) { q.Country = "" }, "country"},
		{"missing category", func(q *SearchQuery) { q.Category = "" }, "category"},
		{"zero count", func(q *SearchQuery) { q.LeadCount = 0 }, "lead_count"},
		{"negative count", func(q *SearchQuery) { q.LeadCount = -3 }, "lead_count"},
		{"count over max", func(q *SearchQuery) { q.LeadCount = MaxLeadCount + 1 }, "lead_count"},
		{"count at max", func(q *SearchQuery) { q.LeadCount = MaxLeadCount }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid
			tt.mutate(&q)
			err := q.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestSearchQuery_Location(t *testing.T) {
	q := SearchQuery{City: "Portland", State: "OR", Country: "USA"}
	assert.Equal(t, "Portland, OR, USA", q.Location())

	q.State = ""
	assert.Equal(t, "Portland, USA", q.Location())
}

func TestBusinessRecord_IdentityKey(t *testing.T) {
	a := BusinessRecord{BusinessName: "Joe's Plumbing", Phone: "555-0101"}
	b := BusinessRecord{BusinessName: "JOE'S PLUMBING", Phone: "555-0101"}
	c := BusinessRecord{BusinessName: "Joe's Plumbing", Phone: "555-0102"}

	assert.Equal(t, a.IdentityKey(), b.IdentityKey())
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey())
}
