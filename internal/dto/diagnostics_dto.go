package dto

type ModelsResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

type ConnectivityResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}
