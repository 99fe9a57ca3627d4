package entity

import "strings"

// Release describes a published build of the tool.
type Release struct {
	Tag    string
	Assets []ReleaseAsset
}

// Version returns the release tag without its leading "v".
func (r Release) Version() string {
	return strings.TrimPrefix(r.Tag, "v")
}

// ReleaseAsset is a downloadable file attached to a release.
type ReleaseAsset struct {
	Name        string
	DownloadURL string
	Size        int64
}

// UpdateStatus reports the result of an update check or installation.
type UpdateStatus struct {
	CurrentVersion string
	LatestVersion  string
	// Asset is the build selected for this platform; empty when up to date.
	Asset     ReleaseAsset
	UpToDate  bool
	Installed bool
}
