package reconcile

import (
	"github.com/streamvault/streamvault/app/store"
)

// DedupeResult splits an episode set into survivors and ids to remove.
type DedupeResult struct {
	Keep   []store.Episode
	Remove []string
}

// DeduplicateEpisodes groups episodes by their identity triple and, for each
// group with more than one member, keeps the highest-scoring record and marks
// the rest for removal. Ties keep the lexicographically smallest id, so the
// outcome is deterministic regardless of input order. Episodes without a
// complete identity triple pass through untouched; the validation sweep deals
// with those. Running the result through DeduplicateEpisodes again is a no-op.
func DeduplicateEpisodes(episodes []store.Episode) DedupeResult {
	winners := make(map[store.TripleKey]store.Episode)
	for _, episode := range episodes {
		if episode.ShowID == "" || episode.SeasonNumber <= 0 || episode.EpisodeNumber <= 0 {
			continue
		}
		key := store.TripleKey{
			ShowID:        episode.ShowID,
			SeasonNumber:  episode.SeasonNumber,
			EpisodeNumber: episode.EpisodeNumber,
		}
		current, ok := winners[key]
		if !ok || beats(episode, current) {
			winners[key] = episode
		}
	}

	var result DedupeResult
	for _, episode := range episodes {
		if episode.ShowID == "" || episode.SeasonNumber <= 0 || episode.EpisodeNumber <= 0 {
			result.Keep = append(result.Keep, episode)
			continue
		}
		key := store.TripleKey{
			ShowID:        episode.ShowID,
			SeasonNumber:  episode.SeasonNumber,
			EpisodeNumber: episode.EpisodeNumber,
		}
		if winners[key].ID == episode.ID {
			result.Keep = append(result.Keep, episode)
		} else {
			result.Remove = append(result.Remove, episode.ID)
		}
	}
	return result
}

// beats reports whether a should replace b as a group's survivor.
func beats(a, b store.Episode) bool {
	scoreA, scoreB := CompletenessScore(a), CompletenessScore(b)
	if scoreA != scoreB {
		return scoreA > scoreB
	}
	return a.ID < b.ID
}
