package luabot

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Limits applied when a release is assembled for display.
const (
	MaxReleaseDescription = 250
	MaxReleaseChangelog   = 1024
	MaxReleaseTags        = 3
	MaxKeyFeatures        = 3
)

// ReleaseDateLayout formats the release date shown in notifications.
const ReleaseDateLayout = "January 02, 2006"

// Release is everything a notification needs to announce a new version.
type Release struct {
	Namespace    string
	Name         string
	Version      string
	Description  string
	Released     string
	Downloads    int
	Tags         []string
	Dependencies []string
	KeyFeatures  []string
	Changelog    string
	DownloadURL  string
	WebsiteURL   string
	IconURL      string
}

// Notifier announces releases to users.
type Notifier interface {
	Notify(ctx context.Context, release *Release) error
}

// NewRelease assembles a Release from registry metadata and the raw
// changelog of ver. A nil ver falls back to pkg.Latest.
func NewRelease(pkg *Package, ver *PackageVersion, changelog string) *Release {
	if ver == nil {
		ver = pkg.Latest
	}
	if ver == nil {
		ver = &PackageVersion{}
	}

	r := &Release{
		Namespace:    pkg.Namespace,
		Name:         pkg.Name,
		Version:      ver.VersionNumber,
		Description:  Truncate(ver.Description, MaxReleaseDescription),
		Released:     formatReleaseDate(ver.DateCreated),
		Downloads:    ver.Downloads,
		Tags:         releaseTags(pkg.CommunityListings),
		Dependencies: ver.Dependencies,
		DownloadURL:  ver.DownloadURL,
		WebsiteURL:   ver.WebsiteURL,
		IconURL:      ver.Icon,
	}
	if r.Version == "" {
		r.Version = "Unknown"
	}
	if r.WebsiteURL == "" {
		r.WebsiteURL = pkg.PackageURL
	}
	if r.DownloadURL == "" {
		r.DownloadURL = fmt.Sprintf("https://thunderstore.io/package/download/%s/%s/%s/", pkg.Namespace, pkg.Name, r.Version)
	}

	if changelog != "" {
		formatted := ExtractChangelog(changelog, r.Version)
		r.KeyFeatures = KeyFeatures(formatted)
		r.Changelog = Truncate(formatted, MaxReleaseChangelog)
	}
	return r
}

// KeyFeatures returns up to MaxKeyFeatures distinct list items from a
// formatted changelog, compared case-insensitively.
func KeyFeatures(formatted string) []string {
	var features []string
	for _, line := range strings.Split(formatted, "\n") {
		if len(features) == MaxKeyFeatures {
			break
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, Bullet+" ") && !strings.HasPrefix(trimmed, "- ") && !strings.HasPrefix(trimmed, "* ") {
			continue
		}
		feature := strings.TrimSpace(string([]rune(trimmed)[2:]))
		if feature == "" || containsFold(features, feature) {
			continue
		}
		features = append(features, feature)
	}
	return features
}

func formatReleaseDate(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.Format(ReleaseDateLayout)
}

func releaseTags(listings []CommunityListing) []string {
	var tags []string
	for _, l := range listings {
		for _, c := range l.Categories {
			if len(tags) == MaxReleaseTags {
				return tags
			}
			if c == "" || containsFold(tags, c) {
				continue
			}
			tags = append(tags, c)
		}
	}
	return tags
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
