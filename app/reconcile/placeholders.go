package reconcile

import (
	"regexp"
	"strings"
)

// Placeholder sentinels. These are the known dummy values the seed scripts
// left behind; scoring and merge decisions treat a field holding one of them
// as never actually filled in.
const (
	// StockThumbnailHost serves the generic gray thumbnails used before a
	// real still is fetched.
	StockThumbnailHost = "via.placeholder.com"

	// TrustedImageHost is the metadata source's image CDN. Thumbnails from
	// here are considered real.
	TrustedImageHost = "image.tmdb.org"

	// PlaceholderVideoToken appears inside video references that were seeded
	// without a real hosted file behind them.
	PlaceholderVideoToken = "PLACEHOLDER"

	// PlaceholderAirDate is the seed scripts' stand-in air date.
	PlaceholderAirDate = "1970-01-01"

	// DefaultThumbnailURL is assigned to newly created episodes when the
	// metadata source has no still for them.
	DefaultThumbnailURL = "https://via.placeholder.com/640x360"
)

var (
	genericTitleRe        = regexp.MustCompile(`^Episode\s+\d+$`)
	templateDescriptionRe = regexp.MustCompile(`^Season\s+\d+,\s+Episode\s+\d+\.?$`)
)

// IsGenericTitle reports whether a title is the "Episode N" pattern the seed
// scripts generate when no real title is known.
func IsGenericTitle(title string) bool {
	return genericTitleRe.MatchString(strings.TrimSpace(title))
}

// IsTemplateDescription reports whether a description is the generated
// "Season X, Episode Y" template rather than real prose.
func IsTemplateDescription(description string) bool {
	description = strings.TrimSpace(description)
	return description == "" || templateDescriptionRe.MatchString(description)
}

// IsStockThumbnail reports whether a thumbnail is missing or served from the
// stock placeholder host.
func IsStockThumbnail(thumbnailURL string) bool {
	return thumbnailURL == "" || strings.Contains(thumbnailURL, StockThumbnailHost)
}

// IsTrustedThumbnail reports whether a thumbnail comes from the metadata
// source's image host.
func IsTrustedThumbnail(thumbnailURL string) bool {
	return strings.Contains(thumbnailURL, TrustedImageHost)
}

// IsPlaceholderVideo reports whether a video reference is missing or carries
// the placeholder sentinel instead of a real hosted file id.
func IsPlaceholderVideo(videoURL string) bool {
	return videoURL == "" || strings.Contains(videoURL, PlaceholderVideoToken)
}

// IsPlaceholderAirDate reports whether an air date is missing or the seeded
// stand-in value.
func IsPlaceholderAirDate(airDate string) bool {
	return airDate == "" || airDate == PlaceholderAirDate
}
