package dto

type SearchRequest struct {
	Query string `json:"query" form:"query" validate:"max=2000"`
}

type SearchResponse struct {
	Query  string `json:"query"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Alert  string `json:"alert,omitempty"`
	// Recommended is the name of the dog whose photo closes the reply.
	Recommended string `json:"recommended,omitempty"`
	// Superseded is set when a newer search on the same board finished first.
	Superseded bool `json:"superseded,omitempty"`
}
