package luabot

import (
	"context"
	"encoding/json"
	"time"
)

// VersionRecord is the persisted marker of the last release announced.
// Zero fields are stored as JSON null.
type VersionRecord struct {
	LastVersion string
	LastChecked time.Time
}

type versionRecordJSON struct {
	LastVersion *string `json:"last_version"`
	LastChecked *string `json:"last_checked"`
}

// lastCheckedLayouts are the accepted forms of last_checked. Older files
// carry a local time without a zone.
var lastCheckedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
}

// ParseLastChecked parses a stored last_checked value. Zone-less values are
// read as local time.
func ParseLastChecked(s string) (time.Time, error) {
	for _, layout := range lastCheckedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Errorf(EPARSE, "Unrecognized last_checked time %q.", s)
}

// MarshalJSON encodes the record as {"last_version": ..., "last_checked": ...}.
func (r VersionRecord) MarshalJSON() ([]byte, error) {
	var v versionRecordJSON
	if r.LastVersion != "" {
		v.LastVersion = &r.LastVersion
	}
	if !r.LastChecked.IsZero() {
		checked := r.LastChecked.Format(time.RFC3339Nano)
		v.LastChecked = &checked
	}
	return json.Marshal(v)
}

// UnmarshalJSON decodes a record, treating null fields as zero values.
// An unparseable last_checked is EPARSE.
func (r *VersionRecord) UnmarshalJSON(data []byte) error {
	var v versionRecordJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = VersionRecord{}
	if v.LastVersion != nil {
		r.LastVersion = *v.LastVersion
	}
	if v.LastChecked != nil && *v.LastChecked != "" {
		t, err := ParseLastChecked(*v.LastChecked)
		if err != nil {
			return err
		}
		r.LastChecked = t
	}
	return nil
}

// VersionStore persists the VersionRecord.
type VersionStore interface {
	// LoadVersionRecord returns the stored record, or an empty record when
	// nothing has been stored yet.
	LoadVersionRecord(ctx context.Context) (*VersionRecord, error)

	// SaveVersionRecord replaces the stored record.
	SaveVersionRecord(ctx context.Context, rec *VersionRecord) error
}

// Package is the registry's metadata for a published package.
type Package struct {
	Namespace         string             `json:"namespace"`
	Name              string             `json:"name"`
	FullName          string             `json:"full_name"`
	PackageURL        string             `json:"package_url"`
	Latest            *PackageVersion    `json:"latest"`
	CommunityListings []CommunityListing `json:"community_listings"`
}

// CommunityListing places a package in a community with categories.
type CommunityListing struct {
	Community  string   `json:"community"`
	Categories []string `json:"categories"`
}

// PackageVersion is the registry's metadata for one published version.
type PackageVersion struct {
	VersionNumber string   `json:"version_number"`
	Description   string   `json:"description"`
	DateCreated   string   `json:"date_created"`
	Downloads     int      `json:"downloads"`
	WebsiteURL    string   `json:"website_url"`
	DownloadURL   string   `json:"download_url"`
	Icon          string   `json:"icon"`
	Dependencies  []string `json:"dependencies"`
}

// PackageRegistry reads release information for the watched package.
type PackageRegistry interface {
	// Package returns the package metadata including the latest version.
	Package(ctx context.Context) (*Package, error)

	// Version returns the metadata for a specific version.
	Version(ctx context.Context, version string) (*PackageVersion, error)

	// Changelog returns the markdown changelog published with a version.
	// Returns ENOTFOUND if the version has no changelog.
	Changelog(ctx context.Context, version string) (string, error)
}
