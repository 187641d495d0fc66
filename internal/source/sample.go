package source

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/model"
)

// The sample providers stand in for real scraper integrations. Each one
// draws from a shared candidate pool derived deterministically from the
// query, taking an overlapping window so that cross-provider duplicates
// occur the way they would with real maps/directory/social sources.

var namePrefixes = []string{
	"Golden", "Summit", "Blue Ridge", "Riverside", "Evergreen", "Premier",
	"Sunrise", "Cornerstone", "Metro", "Lakeside", "Heritage", "Pinnacle",
	"Silver Oak", "Northgate", "Redwood", "Crosstown", "Harbor", "Elmwood",
	"Five Star", "Westside",
}

var nameSuffixes = []string{
	"", "LLC", "Co.", "Group", "& Sons", "Services", "Inc.", "Bros.",
}

var streetNames = []string{
	"Main St", "Oak Ave", "Maple Dr", "2nd Ave", "Washington Blvd",
	"Park Rd", "Cedar Ln", "Broadway", "Mill St", "Highland Ave",
	"Jefferson St", "Lakeview Dr",
}

// querySeed folds the query's identifying fields into a stable 64-bit
// seed so repeated searches see the same candidate pool.
func querySeed(q model.SearchQuery) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(q.City)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(q.State)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(q.Country)))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(q.Category)))
	return h.Sum64()
}

// generatePool produces n candidate businesses for the query. The
// sequence is prefix-stable: growing n never changes earlier entries.
func generatePool(q model.SearchQuery, n int) []model.BusinessRecord {
	rng := rand.New(rand.NewPCG(querySeed(q), 0x5eadc0de))

	pool := make([]model.BusinessRecord, 0, n)
	for i := 0; i < n; i++ {
		prefix := namePrefixes[rng.IntN(len(namePrefixes))]
		suffix := nameSuffixes[rng.IntN(len(nameSuffixes))]
		name := strings.TrimSpace(fmt.Sprintf("%s %s %s", prefix, q.Category, suffix))

		phone := fmt.Sprintf("(%d) %03d-%04d", 200+rng.IntN(700), rng.IntN(1000), rng.IntN(10000))
		street := streetNames[rng.IntN(len(streetNames))]
		address := fmt.Sprintf("%d %s, %s", 100+rng.IntN(9800), street, q.Location())

		rec := model.BusinessRecord{
			BusinessName: name,
			Address:      address,
			Phone:        phone,
			Category:     q.Category,
		}

		// Roughly 70% of candidates have a known website, and most of
		// those use HTTPS.
		if rng.IntN(10) < 7 {
			scheme := "https"
			if rng.IntN(10) < 2 {
				scheme = "http"
			}
			domain := slugify(name) + ".com"
			rec.Website = scheme + "://www." + domain
			if rng.IntN(2) == 0 {
				rec.Email = "info@" + domain
			}
		}

		pool = append(pool, rec)
	}
	return pool
}

// slugify lowercases a business name and strips it to [a-z0-9-].
func slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// sampleProvider is one window over the shared pool plus a per-source
// decoration applied to each record.
type sampleProvider struct {
	name     string
	latency  time.Duration
	window   func(limit int) (offset, size int)
	decorate func(rng *rand.Rand, rec *model.BusinessRecord)
}

func (p *sampleProvider) Name() string { return p.name }

// Fetch returns up to limit records. The simulated lookup latency honors
// ctx cancellation.
func (p *sampleProvider) Fetch(ctx context.Context, query model.SearchQuery, limit int) ([]model.BusinessRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	select {
	case <-time.After(p.latency):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	offset, size := p.window(limit)
	pool := generatePool(query, offset+size)

	rng := rand.New(rand.NewPCG(querySeed(query), fnv64(p.name)))
	out := make([]model.BusinessRecord, 0, size)
	for _, rec := range pool[offset : offset+size] {
		p.decorate(rng, &rec)
		out = append(out, rec)
	}

	zap.L().Debug("source: fetched sample records",
		zap.String("provider", p.name),
		zap.Int("count", len(out)),
	)
	return out, nil
}

func fnv64(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// NewMapsProvider returns the maps-style sample source. It ranks from the
// top of the pool and attaches a maps URL to every record.
func NewMapsProvider() Provider {
	return &sampleProvider{
		name:    "maps",
		latency: 250 * time.Millisecond,
		window: func(limit int) (int, int) {
			return 0, limit
		},
		decorate: func(_ *rand.Rand, rec *model.BusinessRecord) {
			q := url.QueryEscape(rec.BusinessName + " " + rec.Address)
			rec.MapsURL = "https://www.google.com/maps/search/?api=1&query=" + q
		},
	}
}

// NewDirectoryProvider returns the business-directory-style sample
// source. Its window overlaps the maps provider's by half, so duplicate
// candidates show up across sources.
func NewDirectoryProvider() Provider {
	return &sampleProvider{
		name:    "directory",
		latency: 400 * time.Millisecond,
		window: func(limit int) (int, int) {
			return limit / 2, limit
		},
		decorate: func(_ *rand.Rand, rec *model.BusinessRecord) {
			// Directory listings carry no maps link and often no email.
			rec.MapsURL = ""
			rec.Email = ""
		},
	}
}

// NewSocialProvider returns the social-directory-style sample source. It
// overlaps the directory window and fills in social profiles.
func NewSocialProvider() Provider {
	return &sampleProvider{
		name:    "social",
		latency: 300 * time.Millisecond,
		window: func(limit int) (int, int) {
			return limit, limit
		},
		decorate: func(rng *rand.Rand, rec *model.BusinessRecord) {
			slug := slugify(rec.BusinessName)
			rec.SocialMedia.Facebook = "https://www.facebook.com/" + slug
			if rng.IntN(2) == 0 {
				rec.SocialMedia.Instagram = "https://www.instagram.com/" + slug
			}
		},
	}
}
