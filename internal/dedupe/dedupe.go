// Package dedupe removes duplicate business candidates across source
// providers.
package dedupe

import "github.com/sells-group/leadscout/internal/model"

// Dedupe drops records whose identity key (lowercased name + phone) was
// already seen, preserving the relative order of first occurrences. The
// key is deliberately coarse: two businesses sharing both name and phone
// collapse into one, accepted as a controlled false-merge rate in
// exchange for O(n) dedup with no fuzzy matching. The seen set is local
// to one call; nothing is cached across searches.
func Dedupe(records []model.BusinessRecord) []model.BusinessRecord {
	seen := make(map[string]bool, len(records))
	out := make([]model.BusinessRecord, 0, len(records))
	for _, r := range records {
		key := r.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
