package check

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
)

// RegistrationStrategy is one way of determining a domain's registration
// expiry. Strategies are tried in a fixed priority order.
type RegistrationStrategy interface {
	Name() string
	Fetch(ctx context.Context, hostname string) (time.Time, error)
}

// DefaultStrategies is the production chain: the whois protocol first,
// then HTTP lookup mirrors in priority order.
func DefaultStrategies() []RegistrationStrategy {
	return []RegistrationStrategy{
		&whoisStrategy{},
		&mirrorStrategy{label: "whois.com", url: "https://www.whois.com/whois/%s"},
		&mirrorStrategy{label: "who.is", url: "https://who.is/whois/%s"},
	}
}

// ── whois protocol ───────────────────────────────────────────────────────

type whoisStrategy struct{}

func (s *whoisStrategy) Name() string { return "whois" }

func (s *whoisStrategy) Fetch(ctx context.Context, hostname string) (time.Time, error) {
	client := whois.NewClient()
	client.SetTimeout(lookupTimeout)
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < lookupTimeout {
			client.SetTimeout(remaining)
		}
	}

	raw, err := client.Whois(hostname)
	if err != nil {
		return time.Time{}, fmt.Errorf("query: %w", err)
	}

	if parsed, err := whoisparser.Parse(raw); err == nil {
		if exp := parsed.Domain.ExpirationDateInTime; exp != nil {
			return *exp, nil
		}
	}

	// Registries the parser does not know still often print a
	// recognizable expiry line.
	return ParseExpiryText(raw)
}

// ── HTTP mirrors ─────────────────────────────────────────────────────────

type mirrorStrategy struct {
	label string
	url   string // printf template taking the hostname
}

func (s *mirrorStrategy) Name() string { return s.label }

func (s *mirrorStrategy) Fetch(ctx context.Context, hostname string) (time.Time, error) {
	reqCtx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fmt.Sprintf(s.url, hostname), nil)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("User-Agent", "domainwatch/1.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return time.Time{}, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return time.Time{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return time.Time{}, fmt.Errorf("read: %w", err)
	}
	return ParseExpiryText(string(body))
}

// ── expiry text parsing ──────────────────────────────────────────────────

// expiryLabels are the known "expiry date" field names, in priority
// order. Matching is case-insensitive; the first label with a parseable
// date wins.
var expiryLabels = []string{
	"registry expiry date",
	"registrar registration expiration date",
	"expiration date",
	"expiry date",
	"expire date",
	"expires on",
	"expires",
	"expiry",
	"paid-till",
	"renewal date",
	"valid until",
}

// dateLayouts are tried in order against each candidate value.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02.01.2006",
	"2006/01/02",
	"January 2, 2006",
	"2-Jan-2006",
}

var labelPatterns = buildLabelPatterns()

func buildLabelPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(expiryLabels))
	for i, label := range expiryLabels {
		patterns[i] = regexp.MustCompile(`(?im)` + regexp.QuoteMeta(label) + `[^:\n]*:\s*([^\r\n<]+)`)
	}
	return patterns
}

// ParseExpiryText scans whois-style output (or a mirror's HTML) for a
// recognizable expiry field and parses its date.
func ParseExpiryText(text string) (time.Time, error) {
	for _, pattern := range labelPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if t, ok := parseDate(strings.TrimSpace(match[1])); ok {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("no expiry date found")
}

func parseDate(value string) (time.Time, bool) {
	// Drop trailing annotations like "(YYYY-MM-DD)" or dot terminators.
	value = strings.TrimSuffix(strings.TrimSpace(value), ".")
	if i := strings.IndexAny(value, "("); i > 0 {
		value = strings.TrimSpace(value[:i])
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	// Some registries append a timezone name the layouts above miss;
	// retry on the first whitespace-delimited token.
	if fields := strings.Fields(value); len(fields) > 1 {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, fields[0]); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}
