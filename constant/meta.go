// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths and CLI branding.
	App = "bilisonic"

	// Version is the current application semantic version string.
	Version = "0.2.0"

	// UserAgent is the browser User-Agent presented to Bilibili and its media CDNs.
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// Referer is required by the Bilibili media CDN; requests without it are rejected with 403.
	Referer = "https://www.bilibili.com/"
)

// Build metadata, overridden at link time with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
