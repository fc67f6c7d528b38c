package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/supabase-community/postgrest-go"
)

type accessTokenKey struct{}

// WithAccessToken makes data requests run as the signed-in user instead of the anon role.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

func accessTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// Client holds the coordinates of a Supabase project. Data goes through
// postgrest-go, auth through gotrue-go (see AuthClient).
type Client struct {
	BaseURL    string
	APIKey     string
	Schema     string
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		APIKey:     apiKey,
		Schema:     "public",
		HTTPClient: &http.Client{},
	}
}

// Rest returns a PostgREST client for one request. postgrest-go keeps the
// first transport failure on the client, so clients are not shared.
func (c *Client) Rest(ctx context.Context) *postgrest.Client {
	bearer := accessTokenFrom(ctx)
	if bearer == "" {
		bearer = c.APIKey
	}
	return postgrest.NewClient(c.BaseURL+"/rest/v1", c.Schema, map[string]string{
		"apikey":        c.APIKey,
		"Authorization": "Bearer " + bearer,
	})
}

// Select reads every row of table into out.
func (c *Client) Select(ctx context.Context, table string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.Rest(ctx).From(table).Select("*", "", false).ExecuteTo(out); err != nil {
		return fromPostgrestError(err)
	}
	return nil
}

// RPC invokes a stored procedure and returns its raw JSON result.
func (c *Client) RPC(ctx context.Context, function string, params interface{}) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]interface{}{}
	}

	rest := c.Rest(ctx)
	body := rest.Rpc(function, "", params)
	if rest.ClientError != nil {
		return nil, rest.ClientError
	}
	return rpcResult(body)
}
