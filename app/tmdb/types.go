package tmdb

// Metadata source payload types

type SearchResult struct {
	ID           int64   `json:"id"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
}

type SearchResponse struct {
	Page         int            `json:"page"`
	Results      []SearchResult `json:"results"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
}

type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
}

type ShowDetail struct {
	ID               int64    `json:"id"`
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	FirstAirDate     string   `json:"first_air_date"`
	NumberOfSeasons  int      `json:"number_of_seasons"`
	Genres           []Genre  `json:"genres"`
	OriginalLanguage string   `json:"original_language"`
	VoteAverage      float64  `json:"vote_average"`
	Credits          *Credits `json:"credits,omitempty"`
}

type MovieDetail struct {
	ID               int64    `json:"id"`
	Title            string   `json:"title"`
	Overview         string   `json:"overview"`
	PosterPath       string   `json:"poster_path"`
	BackdropPath     string   `json:"backdrop_path"`
	ReleaseDate      string   `json:"release_date"`
	Runtime          int      `json:"runtime"`
	Genres           []Genre  `json:"genres"`
	OriginalLanguage string   `json:"original_language"`
	VoteAverage      float64  `json:"vote_average"`
	Credits          *Credits `json:"credits,omitempty"`
}

type EpisodeDetail struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	StillPath     string `json:"still_path"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	AirDate       string `json:"air_date"`
	Runtime       int    `json:"runtime"`
}

type SeasonDetail struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	SeasonNumber int             `json:"season_number"`
	Episodes     []EpisodeDetail `json:"episodes"`
}

// statusBody is the error payload the metadata source returns alongside
// non-2xx statuses.
type statusBody struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}
