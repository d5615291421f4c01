package models

// Result is one fetched page: raw HTML plus the HTTP status that produced it.
type Result struct {
	URL    string `json:"url"`
	Status int    `json:"status"`
	HTML   string `json:"html"`
}
