package chi

import (
	"github.com/kailas-cloud/tastematch/internal/domain/entity"
	"github.com/kailas-cloud/tastematch/internal/domain/features"
	"github.com/kailas-cloud/tastematch/internal/domain/match"
	"github.com/kailas-cloud/tastematch/internal/domain/similarity"
)

// EntityResponse is the wire form of a song or a movie.
type EntityResponse struct {
	ID       int      `json:"id"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Creator  string   `json:"creator"`
	Genre    string   `json:"genre,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Year     int      `json:"year,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Cast     []string `json:"cast,omitempty"`
	Minutes  *int     `json:"minutes,omitempty"`
}

// SearchResultItem is one ranked search hit.
type SearchResultItem struct {
	EntityResponse
	Score int `json:"score"`
}

// SearchResponse is the body of GET /api/v1/{category}/search.
type SearchResponse struct {
	Items []SearchResultItem `json:"items"`
	Total int                `json:"total"`
}

// SuggestResponse is the body of GET /api/v1/{category}/suggest.
type SuggestResponse struct {
	Items   []EntityResponse `json:"items"`
	Visible bool             `json:"visible"`
}

// RecommendationItem is one similar entity.
type RecommendationItem struct {
	EntityResponse
	Similarity   float64 `json:"similarity"`
	MatchPercent int     `json:"match_percent"`
}

// RecommendResponse is the body of GET /api/v1/{category}/entities/{id}/recommendations.
type RecommendResponse struct {
	Selected EntityResponse       `json:"selected"`
	Items    []RecommendationItem `json:"items"`
	Total    int                  `json:"total"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Samples []string `json:"samples,omitempty"`
}

func entityToResponse(e *entity.Entity) EntityResponse {
	resp := EntityResponse{
		ID:       e.ID(),
		Kind:     string(e.Kind()),
		Title:    e.Title(),
		Creator:  e.Creator(),
		Genre:    e.Genre(),
		Duration: e.Duration(),
		Year:     e.Year(),
	}
	if info, ok := e.Movie(); ok {
		rating := info.Rating()
		resp.Rating = &rating
		resp.Cast = info.Cast()
		if m, err := features.ParseMinutes(e.Duration()); err == nil {
			resp.Minutes = &m
		}
	}
	return resp
}

func searchResultsToResponse(results []match.Result) SearchResponse {
	items := make([]SearchResultItem, len(results))
	for i := range results {
		items[i] = SearchResultItem{
			EntityResponse: entityToResponse(&results[i].Entity),
			Score:          results[i].Score,
		}
	}
	return SearchResponse{Items: items, Total: len(items)}
}

func entitiesToResponse(entities []entity.Entity) []EntityResponse {
	items := make([]EntityResponse, len(entities))
	for i := range entities {
		items[i] = entityToResponse(&entities[i])
	}
	return items
}

func recommendationsToResponse(selected *entity.Entity, recs []similarity.Recommendation) RecommendResponse {
	items := make([]RecommendationItem, len(recs))
	for i := range recs {
		items[i] = RecommendationItem{
			EntityResponse: entityToResponse(&recs[i].Entity),
			Similarity:     recs[i].Similarity,
			MatchPercent:   recs[i].MatchPercent(),
		}
	}
	return RecommendResponse{
		Selected: entityToResponse(selected),
		Items:    items,
		Total:    len(items),
	}
}
