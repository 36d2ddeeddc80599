package inspector

import (
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// securityHeaders are the response headers checked by analyzeSecurity; each
// present header contributes an equal share of the score.
var securityHeaders = []string{
	"Strict-Transport-Security",
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"X-XSS-Protection",
}

func analyzeDocument(doc *goquery.Document, pageURL string) PageInfo {
	info := PageInfo{
		Title:    strings.TrimSpace(doc.Find("title").First().Text()),
		Headings: make(map[string]int, 6),
		MetaTags: make(map[string]string),
	}

	for _, level := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		info.Headings[level] = doc.Find(level).Length()
	}

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		name, ok := s.Attr("name")
		if !ok {
			name, ok = s.Attr("property")
		}
		if !ok || name == "" {
			return
		}
		content, _ := s.Attr("content")
		info.MetaTags[strings.ToLower(name)] = content
	})
	info.MetaDescription = info.MetaTags["description"]
	info.MetaKeywords = info.MetaTags["keywords"]

	base, _ := url.Parse(pageURL)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		if base != nil {
			ref = base.ResolveReference(ref)
		}
		if base != nil && ref.Host == base.Host {
			info.InternalLinks++
		} else {
			info.ExternalLinks++
		}
	})

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		info.Images++
		if alt, _ := s.Attr("alt"); strings.TrimSpace(alt) == "" {
			info.ImagesNoAlt++
		}
	})

	info.Scripts = doc.Find("script[src]").Length()
	info.Stylesheets = doc.Find(`link[rel="stylesheet"]`).Length()

	return info
}

func analyzeSecurity(resp *http.Response, finalURL string) SecurityInfo {
	info := SecurityInfo{
		HTTPS:   strings.HasPrefix(finalURL, "https://"),
		Headers: make(map[string]bool, len(securityHeaders)),
		Missing: []string{},
		Raw:     make(map[string]string, len(securityHeaders)),
	}

	share := 100 / len(securityHeaders)
	for _, name := range securityHeaders {
		value := resp.Header.Get(name)
		present := value != ""
		info.Headers[name] = present
		if present {
			info.Score += share
			info.Raw[name] = value
		} else {
			info.Missing = append(info.Missing, name)
		}
	}

	return info
}

// techSignatures maps technology names to substrings looked up in script
// and stylesheet URLs.
var techSignatures = map[string][]string{
	"jQuery":       {"jquery"},
	"React":        {"react"},
	"Vue.js":       {"vue"},
	"Angular":      {"angular"},
	"Bootstrap":    {"bootstrap"},
	"Tailwind CSS": {"tailwind"},
	"Google Analytics": {
		"google-analytics.com", "googletagmanager.com",
	},
	"Font Awesome": {"font-awesome", "fontawesome"},
	"Cloudflare":   {"cloudflare"},
	"WordPress":    {"wp-content", "wp-includes"},
}

func detectTechnologies(headers http.Header, doc *goquery.Document) []string {
	found := make(map[string]bool)

	if server := headers.Get("Server"); server != "" {
		found["Server: "+server] = true
	}
	if powered := headers.Get("X-Powered-By"); powered != "" {
		found["X-Powered-By: "+powered] = true
	}

	var assets []string
	doc.Find("script[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		assets = append(assets, strings.ToLower(src))
	})
	doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		assets = append(assets, strings.ToLower(href))
	})

	for name, needles := range techSignatures {
		for _, needle := range needles {
			for _, asset := range assets {
				if strings.Contains(asset, needle) {
					found[name] = true
				}
			}
		}
	}

	if generator, ok := doc.Find(`meta[name="generator"]`).Attr("content"); ok && generator != "" {
		found[generator] = true
	}

	techs := make([]string, 0, len(found))
	for name := range found {
		techs = append(techs, name)
	}
	sort.Strings(techs)

	return techs
}
