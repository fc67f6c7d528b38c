package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
)

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

type smoke struct {
	baseURL string
	token   string
	client  *http.Client
	failed  int
}

// Request helper
func (s *smoke) send(method, path string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, nil, err
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, s.baseURL+path, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func (s *smoke) step(title, method, path string, body interface{}) {
	color.Yellow("\n%s", title)
	resp, respBody, err := s.send(method, path, body)
	if err != nil {
		color.Red("Failed: %v", err)
		s.failed++
		return
	}
	if resp.StatusCode >= 300 {
		color.Red("Status: %s", resp.Status)
		s.failed++
	} else {
		color.Green("Status: %s", resp.Status)
	}
	prettyPrint(respBody)
}

func main() {
	baseURL := flag.String("url", envOr("SMOKE_BASE_URL", "http://localhost:3000"), "server base URL")
	token := flag.String("token", os.Getenv("SMOKE_ACCESS_TOKEN"), "Supabase access token")
	query := flag.String("query", "A calm dog that is good with children", "search query")
	flag.Parse()

	s := &smoke{
		baseURL: *baseURL,
		token:   *token,
		client:  &http.Client{Timeout: 2 * time.Minute},
	}

	color.Cyan("🚀 PetMatch smoke test against %s\n", s.baseURL)

	s.step("1. Health", http.MethodGet, "/healthz", nil)
	if s.token == "" {
		color.Red("\nNo access token: set SMOKE_ACCESS_TOKEN or -token to run the API checks")
		os.Exit(1)
	}
	s.step("2. Session", http.MethodGet, "/api/auth/session", nil)
	s.step("3. Data store ping", http.MethodGet, "/api/diagnostics/ping", nil)
	s.step("4. Model listing", http.MethodGet, "/api/diagnostics/models", nil)
	s.step("5. Search", http.MethodPost, "/api/match/search", map[string]string{"query": *query})

	if s.failed > 0 {
		color.Red("\n❌ %d step(s) failed", s.failed)
		os.Exit(1)
	}
	color.Green("\n✅ All steps passed")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
