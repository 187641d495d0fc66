package analyzer

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// largePageBytes is the raw body size above which a page is flagged slow.
const largePageBytes = 500_000

var (
	phonePattern = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

var socialDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"x.com",
	"linkedin.com",
	"youtube.com",
	"tiktok.com",
}

// pageFacts is everything the rubric inspects about a fetched page.
type pageFacts struct {
	doc      *goquery.Document
	url      *url.URL
	bodySize int
}

// qualityCheck is one independent deduction in the rubric.
type qualityCheck struct {
	penalty int
	issue   string
	failed  func(*pageFacts) bool
}

// checks is the rubric, in fixed order. Checks are independent and all
// run regardless of earlier results; only the issue list's order depends
// on this ordering.
var checks = []qualityCheck{
	{15, "Not mobile-responsive", missingViewport},
	{10, "No HTTPS", insecureScheme},
	{10, "Missing or poor title tag", poorTitle},
	{10, "Missing or poor meta description", poorMetaDescription},
	{8, "Many images missing alt text", imagesMissingAlt},
	{15, "No contact information visible", noContactInfo},
	{20, "Uses outdated Flash technology", usesFlash},
	{15, "Outdated table-based layout", tableLayout},
	{5, "No social media integration", noSocialLinks},
	{10, "Large page size (slow loading)", largePage},
	{8, "Multiple broken links detected", brokenLinks},
}

// runChecks applies the rubric to a page, returning the clamped score and
// the failed checks' issue strings in rubric order.
func runChecks(facts *pageFacts) (int, []string) {
	score := 100
	var issues []string
	for _, c := range checks {
		if c.failed(facts) {
			score -= c.penalty
			issues = append(issues, c.issue)
		}
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score, issues
}

func missingViewport(f *pageFacts) bool {
	return f.doc.Find(`meta[name="viewport"]`).Length() == 0
}

func insecureScheme(f *pageFacts) bool {
	return f.url.Scheme != "https"
}

func poorTitle(f *pageFacts) bool {
	title := strings.TrimSpace(f.doc.Find("title").First().Text())
	return len(title) < 10
}

func poorMetaDescription(f *pageFacts) bool {
	desc, ok := f.doc.Find(`meta[name="description"]`).First().Attr("content")
	return !ok || len(strings.TrimSpace(desc)) < 50
}

// imagesMissingAlt fails when more than half of all images lack alt text.
// Pages without images pass.
func imagesMissingAlt(f *pageFacts) bool {
	imgs := f.doc.Find("img")
	total := imgs.Length()
	if total == 0 {
		return false
	}
	missing := 0
	imgs.Each(func(_ int, s *goquery.Selection) {
		if alt, ok := s.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			missing++
		}
	})
	return missing*2 > total
}

func noContactInfo(f *pageFacts) bool {
	text := f.doc.Find("body").Text()
	return !phonePattern.MatchString(text) && !emailPattern.MatchString(text)
}

func usesFlash(f *pageFacts) bool {
	return f.doc.Find(`embed[type*="flash"], object[type*="flash"]`).Length() > 0
}

func tableLayout(f *pageFacts) bool {
	return f.doc.Find("table").Length() > 10
}

func noSocialLinks(f *pageFacts) bool {
	found := false
	f.doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("href")
		href = strings.ToLower(href)
		for _, domain := range socialDomains {
			if strings.Contains(href, domain) {
				found = true
				return false
			}
		}
		return true
	})
	return !found
}

func largePage(f *pageFacts) bool {
	return f.bodySize > largePageBytes
}

// brokenLinks samples the first 10 anchors with an href and fails when
// more than 3 are placeholders (empty, "#", or a no-op javascript href).
func brokenLinks(f *pageFacts) bool {
	placeholder := 0
	f.doc.Find("a[href]").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= 10 {
			return false
		}
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || href == "#" || strings.HasPrefix(href, "javascript:void(0)") {
			placeholder++
		}
		return true
	})
	return placeholder > 3
}
