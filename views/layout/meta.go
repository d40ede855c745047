package layout

import (
	"strings"
)

const (
	SiteName           = "FitnessHub"
	defaultDescription = "Book fitness classes, meet our trainers and manage your sessions."
)

// PageMeta contains the head metadata of a page
type PageMeta struct {
	Title        string
	Description  string
	CanonicalURL string

	// Open Graph
	OGType        string
	OGTitle       string
	OGDescription string
	OGURL         string // MUST be absolute URL
	OGSiteName    string

	// Seconds after which the browser reloads the page; 0 disables
	RefreshAfter int
}

// NewPageMeta creates a PageMeta with site-wide defaults
func NewPageMeta(siteURL, path, title string) PageMeta {
	canonicalURL := BuildAbsoluteURL(siteURL, path)
	fullTitle := SiteName
	if title != "" {
		fullTitle = title + " | " + SiteName
	}
	return PageMeta{
		Title:         fullTitle,
		Description:   defaultDescription,
		CanonicalURL:  canonicalURL,
		OGType:        "website",
		OGTitle:       fullTitle,
		OGDescription: defaultDescription,
		OGURL:         canonicalURL,
		OGSiteName:    SiteName,
	}
}

// WithRefresh makes the page reload itself after seconds
func (pm PageMeta) WithRefresh(seconds int) PageMeta {
	pm.RefreshAfter = seconds
	return pm
}

// BuildAbsoluteURL constructs an absolute URL from a path
func BuildAbsoluteURL(siteURL, path string) string {
	if path == "" {
		return siteURL
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	siteURL = strings.TrimRight(siteURL, "/")

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return siteURL + path
}
