package supabase

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Error is an application-level failure reported by Supabase (PostgREST or GoTrue),
// or by Postgres directly when the data store is reached without the REST layer.
type Error struct {
	StatusCode int    `json:"status_code,omitempty"`
	Code       string `json:"code,omitempty"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// errorBody covers both the PostgREST and the GoTrue error shapes.
type errorBody struct {
	Code             interface{} `json:"code"`
	Message          string      `json:"message"`
	Msg              string      `json:"msg"`
	Details          string      `json:"details"`
	Hint             string      `json:"hint"`
	Error            string      `json:"error"`
	ErrorDescription string      `json:"error_description"`
	ErrorCode        string      `json:"error_code"`
}

func parseError(status int, body []byte) *Error {
	e := &Error{StatusCode: status}

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		e.Details = parsed.Details
		e.Hint = parsed.Hint
		switch code := parsed.Code.(type) {
		case string:
			e.Code = code
		case float64:
			if parsed.ErrorCode != "" {
				e.Code = parsed.ErrorCode
			}
		}
		for _, candidate := range []string{parsed.Message, parsed.Msg, parsed.ErrorDescription, parsed.Error} {
			if candidate != "" {
				e.Message = candidate
				break
			}
		}
	}

	if e.Message == "" {
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = http.StatusText(status)
		}
		e.Message = text
	}
	return e
}

var (
	// postgrest-go: fmt.Errorf("(%s) %s", code, message)
	postgrestErrorPattern = regexp.MustCompile(`(?s)^\(([^)]*)\) (.*)$`)
	// gotrue-go: fmt.Errorf("response status code %d: %s", status, body)
	gotrueErrorPattern = regexp.MustCompile(`(?s)^response status code (\d+)(?:: (.*))?$`)
)

func fromPostgrestError(err error) error {
	if err == nil {
		return nil
	}
	m := postgrestErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	return &Error{Code: m[1], Message: m[2]}
}

func fromGoTrueError(err error) error {
	if err == nil {
		return nil
	}
	m := gotrueErrorPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return err
	}
	status, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return err
	}
	return parseError(status, []byte(m[2]))
}

// rpcResult turns the body postgrest-go hands back from Rpc into a result.
// Rpc does not look at the status code, so an error body is recognised by shape.
func rpcResult(body string) (json.RawMessage, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return json.RawMessage("null"), nil
	}

	var shape map[string]json.RawMessage
	if strings.HasPrefix(trimmed, "{") && json.Unmarshal([]byte(trimmed), &shape) == nil {
		_, hasCode := shape["code"]
		_, hasMessage := shape["message"]
		if hasCode && hasMessage {
			return nil, parseError(0, []byte(trimmed))
		}
	}

	if !json.Valid([]byte(trimmed)) {
		return nil, errors.New(trimmed)
	}
	return json.RawMessage(trimmed), nil
}
