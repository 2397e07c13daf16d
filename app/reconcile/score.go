package reconcile

import (
	"github.com/streamvault/streamvault/app/store"
)

// CompletenessScore rates how much real data an episode record carries.
// Higher is better. Used by deduplication to decide which member of a
// duplicate identity-triple group survives.
//
// Weights:
//
//	+10 a season number is present at all (older records predate the field)
//	 +5 title is not the generic "Episode N" placeholder
//	 +5 description is not the generated template
//	 +5 thumbnail is served from the trusted metadata image host
//	+10 video reference is not the placeholder sentinel
//	 +3 air date is not the placeholder date
//	 +2 duration is populated and positive
func CompletenessScore(episode store.Episode) int {
	score := 0
	if episode.SeasonNumber > 0 {
		score += 10
	}
	if episode.Title != "" && !IsGenericTitle(episode.Title) {
		score += 5
	}
	if !IsTemplateDescription(episode.Description) {
		score += 5
	}
	if IsTrustedThumbnail(episode.ThumbnailURL) {
		score += 5
	}
	if !IsPlaceholderVideo(episode.VideoURL) {
		score += 10
	}
	if !IsPlaceholderAirDate(episode.AirDate) {
		score += 3
	}
	if episode.DurationMin > 0 {
		score += 2
	}
	return score
}
