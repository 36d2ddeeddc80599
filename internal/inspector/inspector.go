// Package inspector fetches remote pages, follows their redirect chains
// hop by hop, and produces a structural and security report of the final
// document.
package inspector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultMaxRedirects = 5
	defaultUserAgent    = "ToolsHub-Analyzer/1.0"
)

// ErrInvalidURL is returned when the target is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid url")

// Hop is a single step of a redirect chain.
type Hop struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
}

// PageInfo describes the structure of the final document.
type PageInfo struct {
	Title           string            `json:"title"`
	MetaDescription string            `json:"metaDescription"`
	MetaKeywords    string            `json:"metaKeywords"`
	Headings        map[string]int    `json:"headings"`
	InternalLinks   int               `json:"internalLinks"`
	ExternalLinks   int               `json:"externalLinks"`
	Images          int               `json:"images"`
	ImagesNoAlt     int               `json:"imagesWithoutAlt"`
	Scripts         int               `json:"scripts"`
	Stylesheets     int               `json:"stylesheets"`
	MetaTags        map[string]string `json:"metaTags"`
}

// SecurityInfo scores the presence of common protective response headers.
type SecurityInfo struct {
	HTTPS   bool              `json:"https"`
	Headers map[string]bool   `json:"headers"`
	Missing []string          `json:"missing"`
	Score   int               `json:"score"`
	Raw     map[string]string `json:"raw"`
}

// Report is the full analysis result.
type Report struct {
	URL          string       `json:"url"`
	FinalURL     string       `json:"finalUrl"`
	StatusCode   int          `json:"statusCode"`
	Redirects    []Hop        `json:"redirects"`
	Page         PageInfo     `json:"page"`
	Security     SecurityInfo `json:"security"`
	Technologies []string     `json:"technologies"`
	ElapsedMS    int64        `json:"elapsedMs"`
}

// QuickReport is the result of a single reachability probe.
type QuickReport struct {
	URL        string `json:"url"`
	Reachable  bool   `json:"reachable"`
	StatusCode int    `json:"statusCode"`
	Redirected bool   `json:"redirected"`
	ElapsedMS  int64  `json:"elapsedMs"`
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithTimeout caps the time spent on each request.
func WithTimeout(d time.Duration) Option {
	return func(i *Inspector) {
		if d > 0 {
			i.client.Timeout = d
		}
	}
}

// WithMaxRedirects caps the number of redirect hops followed.
func WithMaxRedirects(n int) Option {
	return func(i *Inspector) {
		if n > 0 {
			i.maxRedirects = n
		}
	}
}

// WithUserAgent overrides the User-Agent sent on probes.
func WithUserAgent(ua string) Option {
	return func(i *Inspector) {
		if ua != "" {
			i.userAgent = ua
		}
	}
}

// Inspector probes remote pages. The zero value is not usable; use New.
type Inspector struct {
	client       *http.Client
	maxRedirects int
	userAgent    string
}

// New creates an Inspector. Its client never follows redirects on its own,
// so each hop can be recorded.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		client: &http.Client{
			Timeout: defaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		maxRedirects: defaultMaxRedirects,
		userAgent:    defaultUserAgent,
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

func validateTarget(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, ErrInvalidURL
	}
	return u, nil
}

func isRedirect(code int) bool {
	switch code {
	case http.StatusMultipleChoices, http.StatusMovedPermanently, http.StatusFound,
		http.StatusSeeOther, http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func (i *Inspector) request(ctx context.Context, method, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", i.userAgent)

	return i.client.Do(req)
}

// traceRedirects follows the chain with HEAD probes and returns the hops
// plus the final URL. An unreachable hop ends the chain with what was
// collected so far.
func (i *Inspector) traceRedirects(ctx context.Context, start string) ([]Hop, string) {
	hops := make([]Hop, 0, i.maxRedirects)
	current := start

	for len(hops) < i.maxRedirects {
		resp, err := i.request(ctx, http.MethodHead, current)
		if err != nil {
			return hops, current
		}
		resp.Body.Close()

		if !isRedirect(resp.StatusCode) {
			return hops, current
		}

		location := resp.Header.Get("Location")
		if location == "" {
			return hops, current
		}

		next := location
		if base, err := url.Parse(current); err == nil {
			if ref, err := url.Parse(location); err == nil {
				next = base.ResolveReference(ref).String()
			}
		}

		hops = append(hops, Hop{
			From:       current,
			To:         next,
			StatusCode: resp.StatusCode,
			Headers:    flattenHeaders(resp.Header),
		})
		current = next
	}

	return hops, current
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name := range h {
		out[name] = h.Get(name)
	}
	return out
}

// Inspect analyzes the page at target: redirect chain, document structure,
// security headers, and detected technologies.
func (i *Inspector) Inspect(ctx context.Context, target string) (*Report, error) {
	const op = "inspector.Inspector.Inspect"

	if _, err := validateTarget(target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	started := time.Now()
	hops, finalURL := i.traceRedirects(ctx, target)

	resp, err := i.request(ctx, http.MethodGet, finalURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to fetch page: %w", op, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse page: %w", op, err)
	}

	page := analyzeDocument(doc, finalURL)
	security := analyzeSecurity(resp, finalURL)

	return &Report{
		URL:          target,
		FinalURL:     finalURL,
		StatusCode:   resp.StatusCode,
		Redirects:    hops,
		Page:         page,
		Security:     security,
		Technologies: detectTechnologies(resp.Header, doc),
		ElapsedMS:    time.Since(started).Milliseconds(),
	}, nil
}

// QuickCheck probes target with a single HEAD request.
func (i *Inspector) QuickCheck(ctx context.Context, target string) (*QuickReport, error) {
	const op = "inspector.Inspector.QuickCheck"

	if _, err := validateTarget(target); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	started := time.Now()

	resp, err := i.request(ctx, http.MethodHead, target)
	if err != nil {
		return &QuickReport{
			URL:       target,
			Reachable: false,
			ElapsedMS: time.Since(started).Milliseconds(),
		}, nil
	}
	resp.Body.Close()

	return &QuickReport{
		URL:        target,
		Reachable:  resp.StatusCode < http.StatusInternalServerError,
		StatusCode: resp.StatusCode,
		Redirected: isRedirect(resp.StatusCode),
		ElapsedMS:  time.Since(started).Milliseconds(),
	}, nil
}
