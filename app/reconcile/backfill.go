package reconcile

import (
	"time"

	"github.com/streamvault/streamvault/app/store"
)

// FallbackCreatedAt is used when neither a related blog post nor a release
// year can supply a creation time.
var FallbackCreatedAt = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// BackfillCreatedAt synthesizes a creation time for an entity that lacks one.
// Preference order: the related blog post's creation time, June 1 of the
// release year, then the fixed fallback. Entities that already carry a
// creation time are left alone.
func BackfillCreatedAt(current time.Time, relatedPost *store.BlogPost, releaseYear int) (time.Time, bool) {
	if !current.IsZero() {
		return current, false
	}
	if relatedPost != nil && !relatedPost.CreatedAt.IsZero() {
		return relatedPost.CreatedAt, true
	}
	if releaseYear > 0 {
		return time.Date(releaseYear, time.June, 1, 0, 0, 0, 0, time.UTC), true
	}
	return FallbackCreatedAt, true
}
