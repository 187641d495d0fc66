// Package analyzer fetches a candidate's website and reduces it to a
// bounded quality score, a status classification, and an issue list.
package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscout/internal/config"
	"github.com/sells-group/leadscout/internal/model"
)

// maxBodyBytes caps how much HTML is downloaded per site. Comfortably
// above the page-weight check threshold so oversized pages still trip it.
const maxBodyBytes = 2 << 20 // 2 MB

// Analyzer scores websites with a fixed deductive rubric. One outbound
// GET per non-empty URL, no retries: a single timeout or error settles
// that record's outcome.
type Analyzer struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     config.AnalyzerConfig
}

// New creates an Analyzer with a bounded-timeout HTTP client and a
// politeness rate limiter on outbound fetches.
func New(cfg config.AnalyzerConfig) *Analyzer {
	return &Analyzer{
		client: &http.Client{
			Timeout: cfg.Timeout(),
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: cfg.Timeout(),
				}).DialContext,
				TLSHandshakeTimeout: cfg.Timeout(),
			},
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		cfg:     cfg,
	}
}

// Analyze fetches the URL and returns its quality assessment. Failures
// are folded into the analysis rather than returned: an unreachable site
// never aborts the batch. An empty URL short-circuits with no network
// call.
func (a *Analyzer) Analyze(ctx context.Context, rawURL string) model.WebsiteAnalysis {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return model.WebsiteAnalysis{
			Status: model.StatusNoWebsite,
			Score:  0,
			Issues: []string{"No website found"},
		}
	}

	normalized, err := normalizeURL(rawURL)
	if err != nil {
		return transientFailure(fmt.Sprintf("invalid URL: %s", rawURL))
	}

	if err := a.limiter.Wait(ctx); err != nil {
		return transientFailure(err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, normalized.String(), nil)
	if err != nil {
		return transientFailure(err.Error())
	}
	req.Header.Set("User-Agent", a.cfg.UserAgent)

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		if siteAbsent(err) {
			return model.WebsiteAnalysis{
				Status: model.StatusNoWebsite,
				Score:  0,
				Issues: []string{"Website not accessible or does not exist"},
			}
		}
		zap.L().Debug("analyzer: fetch failed",
			zap.String("url", normalized.String()),
			zap.Error(err),
		)
		return transientFailure(err.Error())
	}
	defer resp.Body.Close() //nolint:errcheck

	// 5xx responses are treated like the transport-error branch; only
	// 4xx get the inaccessible classification.
	if resp.StatusCode >= http.StatusInternalServerError {
		return transientFailure(fmt.Sprintf("server returned HTTP %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return model.WebsiteAnalysis{
			Status: model.StatusLowQuality,
			Score:  20,
			Issues: []string{"Website not accessible", fmt.Sprintf("HTTP %d", resp.StatusCode)},
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transientFailure(err.Error())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return transientFailure(err.Error())
	}

	facts := &pageFacts{
		doc:      doc,
		url:      normalized,
		bodySize: len(body),
	}
	score, issues := runChecks(facts)

	status := model.StatusLowQuality
	if score >= model.GoodQualityThreshold {
		status = model.StatusGoodQuality
	}
	if len(issues) == 0 {
		issues = []string{"No major issues detected"}
	}

	zap.L().Debug("analyzer: site scored",
		zap.String("url", normalized.String()),
		zap.Int("score", score),
		zap.String("status", string(status)),
		zap.Duration("fetch_time", time.Since(start)),
	)

	return model.WebsiteAnalysis{
		Status: status,
		Score:  score,
		Issues: issues,
	}
}

// transientFailure is the outcome for errors that don't prove the site is
// absent: the business keeps a low-quality classification so one flaky
// fetch never hides a real candidate.
func transientFailure(detail string) model.WebsiteAnalysis {
	return model.WebsiteAnalysis{
		Status: model.StatusLowQuality,
		Score:  15,
		Issues: []string{"Unable to analyze website", detail},
	}
}

// siteAbsent reports whether a fetch error indicates the site does not
// exist: DNS resolution failure or connection refused. Timeouts and
// other transport errors are treated as transient instead.
func siteAbsent(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}

// normalizeURL defaults schemeless URLs to HTTPS.
func normalizeURL(raw string) (*url.URL, error) {
	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Host == "" {
		return nil, fmt.Errorf("url %q has no host", raw)
	}
	return u, nil
}
