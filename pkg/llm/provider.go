package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingCredential means the configured backend has no API key.
var ErrMissingCredential = errors.New("generation service credential is not configured")

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Generate sends a single prompt to the model and returns the whole reply.
	Generate(ctx context.Context, prompt string) (string, error)
}

type ModelInfo struct {
	Name                       string   `json:"name"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods,omitempty"`
}

type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}

// Provider is a backend that can both generate and enumerate its models.
type Provider interface {
	LLMProvider
	ModelLister
}

// HTTPStatusError is a non-2xx answer from a raw HTTP call.
type HTTPStatusError struct {
	StatusCode int    `json:"status_code"`
	Status     string `json:"status"`
	Body       string `json:"body,omitempty"`
}

func NewHTTPStatusError(res *http.Response, body []byte) *HTTPStatusError {
	reason := http.StatusText(res.StatusCode)
	return &HTTPStatusError{
		StatusCode: res.StatusCode,
		Status:     reason,
		Body:       string(body),
	}
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, e.Status)
}
