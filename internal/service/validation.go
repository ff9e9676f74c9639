package service

import (
	"context"
	"errors"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/plugilode/corpintel/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup
)

const (
	trackingPrefix     = "utm_"
	defaultPhoneRegion = "DE"
)

// ErrInvalidEmail is returned when an email fails syntax or deliverability checks.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrInvalidPhone is returned when a phone number cannot be normalized.
var ErrInvalidPhone = errors.New("invalid phone number")

var allowedSocialDomains = map[string]string{
	"linkedin.com": "linkedin",
	"twitter.com":  "twitter",
	"x.com":        "twitter",
}

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// ContactValidator encapsulates the cleaning rules applied to inbound contact
// details: email syntax plus MX deliverability, and E.164 phone normalization.
type ContactValidator struct {
	DefaultRegion string
	dnsResolver   DNSResolver
}

// ContactValidatorOption configures optional dependencies.
type ContactValidatorOption func(*ContactValidator)

// WithDNSResolver overrides the default DNS resolver.
func WithDNSResolver(resolver DNSResolver) ContactValidatorOption {
	return func(v *ContactValidator) {
		v.dnsResolver = resolver
	}
}

// NewContactValidator builds a validator with sensible defaults.
func NewContactValidator(defaultRegion string, opts ...ContactValidatorOption) *ContactValidator {
	region := strings.ToUpper(strings.TrimSpace(defaultRegion))
	if region == "" {
		region = defaultPhoneRegion
	}
	v := &ContactValidator{
		DefaultRegion: region,
		dnsResolver:   systemDNSResolver{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateEmail normalizes and verifies an email address. The domain must be
// syntactically valid, survive the IDNA lookup profile and have at least one
// MX record.
func (v *ContactValidator) ValidateEmail(ctx context.Context, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", ErrInvalidEmail
	}
	parts := strings.SplitN(email, "@", 2)
	domain := parts[1]
	if !isDomainValid(domain) {
		return "", ErrInvalidEmail
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", ErrInvalidEmail
	}
	if !v.hasMXRecord(ctx, asciiDomain) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// NormalizePhone parses the number against the validator's default region and
// returns it in E.164 form.
func (v *ContactValidator) NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	number, err := phonenumbers.Parse(raw, v.DefaultRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(number, phonenumbers.E164), nil
}

func (v *ContactValidator) hasMXRecord(ctx context.Context, domain string) bool {
	if v.dnsResolver == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	records, err := v.dnsResolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

// cleanSocialMedia canonicalizes record social profile links. Links outside
// the supported networks, or pointing at the wrong network, are dropped.
func cleanSocialMedia(sm entity.SocialMedia) entity.SocialMedia {
	return entity.SocialMedia{
		LinkedIn: cleanSocialLink("linkedin", sm.LinkedIn),
		Twitter:  cleanSocialLink("twitter", sm.Twitter),
	}
}

func cleanSocialLink(platform, raw string) string {
	u, err := sanitizeURL(raw)
	if err != nil {
		return ""
	}
	hostPlatform, ok := hostMatchesAllowed(u.Hostname())
	if !ok || hostPlatform != platform {
		return ""
	}
	stripTracking(u)
	return u.String()
}

func hostMatchesAllowed(host string) (string, bool) {
	host = strings.ToLower(strings.Trim(strings.TrimSpace(host), "."))
	if host == "" {
		return "", false
	}
	for domain, platform := range allowedSocialDomains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return platform, true
		}
	}
	return "", false
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	u.Scheme = "https"
	return u, nil
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
