package dto

// QuerySearchRequest represents a free-form catalogue search query.
type QuerySearchRequest struct {
	Query   string `json:"query"`
	Country string `json:"country,omitempty"`
}

// QuerySearchResponse echoes the interpreted parameters alongside the hits.
type QuerySearchResponse struct {
	Query   string `json:"query"`
	Term    string `json:"term"`
	City    string `json:"city,omitempty"`
	Country string `json:"country,omitempty"`
	Results any    `json:"results"`
}
