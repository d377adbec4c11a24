package tmdb

// Page is TMDB's paginated collection envelope.
type Page[T any] struct {
	Page         int `json:"page"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
	Results      []T `json:"results"`
}

type MovieItem struct {
	ID               int     `json:"id"`
	Adult            bool    `json:"adult"`
	BackdropPath     *string `json:"backdrop_path"`
	GenreIDs         []int   `json:"genre_ids"`
	OriginalLanguage string  `json:"original_language"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	Popularity       float64 `json:"popularity"`
	PosterPath       *string `json:"poster_path"`
	ReleaseDate      string  `json:"release_date"`
	Title            string  `json:"title"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
}

type TVItem struct {
	ID               int      `json:"id"`
	Adult            bool     `json:"adult"`
	BackdropPath     *string  `json:"backdrop_path"`
	GenreIDs         []int    `json:"genre_ids"`
	OriginCountry    []string `json:"origin_country"`
	OriginalLanguage string   `json:"original_language"`
	OriginalName     string   `json:"original_name"`
	Overview         string   `json:"overview"`
	Popularity       float64  `json:"popularity"`
	PosterPath       *string  `json:"poster_path"`
	FirstAirDate     string   `json:"first_air_date"`
	Name             string   `json:"name"`
	VoteAverage      float64  `json:"vote_average"`
	VoteCount        int      `json:"vote_count"`
}

// MultiItem is a /search/multi result; MediaType is movie, tv or person.
type MultiItem struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	Name          string  `json:"name"`
	OriginalName  string  `json:"original_name"`
	PosterPath    *string `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type SimilarItem struct {
	ID           int     `json:"id"`
	Title        string  `json:"title,omitempty"`
	Name         string  `json:"name,omitempty"`
	PosterPath   *string `json:"poster_path"`
	ReleaseDate  string  `json:"release_date,omitempty"`
	FirstAirDate string  `json:"first_air_date,omitempty"`
	VoteAverage  float64 `json:"vote_average"`
}

type AuthorDetails struct {
	Name       string   `json:"name"`
	Username   string   `json:"username"`
	AvatarPath *string  `json:"avatar_path"`
	Rating     *float64 `json:"rating"`
}

type Review struct {
	ID            string        `json:"id"`
	Author        string        `json:"author"`
	AuthorDetails AuthorDetails `json:"author_details"`
	Content       string        `json:"content"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
	URL           string        `json:"url"`
}

type Results[T any] struct {
	Results []T `json:"results"`
}

type MovieDetails struct {
	ID               int                  `json:"id"`
	PosterPath       *string              `json:"poster_path"`
	Title            string               `json:"title"`
	OriginalTitle    string               `json:"original_title"`
	VoteAverage      float64              `json:"vote_average"`
	OriginalLanguage string               `json:"original_language"`
	Runtime          *int                 `json:"runtime"`
	ReleaseDate      string               `json:"release_date"`
	Status           string               `json:"status"`
	Overview         string               `json:"overview"`
	Genres           []Genre              `json:"genres"`
	Videos           Results[Video]       `json:"videos"`
	Similar          Results[SimilarItem] `json:"similar"`
	Recommendations  Results[SimilarItem] `json:"recommendations"`
	Reviews          Results[Review]      `json:"reviews"`
}

type Season struct {
	ID           int     `json:"id"`
	AirDate      string  `json:"air_date"`
	EpisodeCount int     `json:"episode_count"`
	Name         string  `json:"name"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	SeasonNumber int     `json:"season_number"`
}

type TVDetails struct {
	ID               int                  `json:"id"`
	PosterPath       *string              `json:"poster_path"`
	Name             string               `json:"name"`
	OriginalName     string               `json:"original_name"`
	VoteAverage      float64              `json:"vote_average"`
	OriginalLanguage string               `json:"original_language"`
	EpisodeRunTime   []int                `json:"episode_run_time"`
	FirstAirDate     string               `json:"first_air_date"`
	Status           string               `json:"status"`
	Overview         string               `json:"overview"`
	Genres           []Genre              `json:"genres"`
	Seasons          []Season             `json:"seasons"`
	Videos           Results[Video]       `json:"videos"`
	Similar          Results[SimilarItem] `json:"similar"`
	Recommendations  Results[SimilarItem] `json:"recommendations"`
	Reviews          Results[Review]      `json:"reviews"`
}

type Episode struct {
	ID            int     `json:"id"`
	AirDate       string  `json:"air_date"`
	EpisodeNumber int     `json:"episode_number"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	Runtime       *int    `json:"runtime"`
	SeasonNumber  int     `json:"season_number"`
	StillPath     *string `json:"still_path"`
}

type SeasonDetails struct {
	ID           int       `json:"id"`
	AirDate      string    `json:"air_date"`
	Episodes     []Episode `json:"episodes"`
	Name         string    `json:"name"`
	Overview     string    `json:"overview"`
	PosterPath   *string   `json:"poster_path"`
	SeasonNumber int       `json:"season_number"`
}

type Provider struct {
	LogoPath        string `json:"logo_path"`
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	DisplayPriority int    `json:"display_priority"`
}

type WatchProviderData struct {
	Link     string     `json:"link"`
	Buy      []Provider `json:"buy,omitempty"`
	Rent     []Provider `json:"rent,omitempty"`
	Flatrate []Provider `json:"flatrate,omitempty"`
}

// WatchProviders maps ISO country codes to where a title can be watched.
type WatchProviders struct {
	ID      int                          `json:"id"`
	Results map[string]WatchProviderData `json:"results"`
}
