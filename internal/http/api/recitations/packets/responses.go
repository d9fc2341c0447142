package packets

// SurahOptionResponse is one autocomplete suggestion.
type SurahOptionResponse struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

type LikeResponse struct {
	ID    int  `json:"id"`
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
