package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"petmatch/pkg/llm"

	"google.golang.org/genai"
)

const (
	DefaultBaseURL    = "https://generativelanguage.googleapis.com"
	DefaultAPIVersion = "v1"
)

// Provider generates through the genai SDK and lists models over plain REST.
type Provider struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	ModelName  string
	Client     *http.Client

	genai *genai.Client
}

// Ensure Provider implements llm.Provider
var _ llm.Provider = &Provider{}

func NewProvider(ctx context.Context, apiKey, baseURL, apiVersion, modelName string) (*Provider, error) {
	if apiKey == "" {
		return nil, llm.ErrMissingCredential
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	httpClient := &http.Client{}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(baseURL, "/") + "/",
			APIVersion: apiVersion,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Provider{
		APIKey:     apiKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIVersion: apiVersion,
		ModelName:  modelName,
		Client:     httpClient,
		genai:      client,
	}, nil
}

func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := p.genai.Models.GenerateContent(ctx, p.ModelName, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	return result.Text(), nil
}

type listModelsResponse struct {
	Models []llm.ModelInfo `json:"models"`
}

// ListModels calls the model listing endpoint directly, key in the query string.
func (p *Provider) ListModels(ctx context.Context) ([]llm.ModelInfo, error) {
	endpoint := fmt.Sprintf("%s/%s/models?key=%s", p.BaseURL, p.APIVersion, url.QueryEscape(p.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, llm.NewHTTPStatusError(res, resBody)
	}

	var listed listModelsResponse
	if err := json.Unmarshal(resBody, &listed); err != nil {
		return nil, fmt.Errorf("decode model list: %w", err)
	}
	return listed.Models, nil
}
