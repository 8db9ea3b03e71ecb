package models

// SimilarityScore holds the per-attribute scores of a candidate against a
// reference set, plus their weighted total. All values are in [0,1].
type SimilarityScore struct {
	Genre    float64 `json:"genre_score"`
	Director float64 `json:"director_score"`
	Actor    float64 `json:"actor_score"`
	Year     float64 `json:"year_score"`
	Total    float64 `json:"total_score"`
}

// RecommendationResult is one ranked candidate.
type RecommendationResult struct {
	Movie       Movie           `json:"movie"`
	Score       SimilarityScore `json:"similarity_score"`
	Explanation string          `json:"explanation"`
}

// RecommendRequest is the request body for the recommendation endpoints.
type RecommendRequest struct {
	MovieIDs []string `json:"movie_ids" validate:"required,min=1,max=3,dive,required"`
	Limit    int      `json:"limit" validate:"omitempty,min=1,max=20"`
}

// TopRecommendationResponse wraps the single best match, or null when none was found.
type TopRecommendationResponse struct {
	Recommendation *RecommendationResult `json:"recommendation"`
	Message        string                `json:"message,omitempty"`
}

// RecommendationListResponse wraps a ranked top-N list.
type RecommendationListResponse struct {
	Recommendations []RecommendationResult `json:"recommendations"`
	Count           int                    `json:"count"`
	Message         string                 `json:"message,omitempty"`
}

// SearchResponse wraps title search results.
type SearchResponse struct {
	Results []MovieSummary `json:"results"`
}
