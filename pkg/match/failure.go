package match

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Failure is a generation error converted for display.
type Failure struct {
	// Short is the friendly one-liner shown in the alert.
	Short string
	// Detailed is Short followed by the full error dump.
	Detailed string
}

// IsRateLimited reports whether the provider's error text carries an HTTP 429.
func IsRateLimited(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}

// DescribeGenerationFailure maps a generation error to what the user sees.
func DescribeGenerationFailure(err error) Failure {
	var short string
	switch {
	case IsRateLimited(err):
		short = MsgQuotaExceeded
	case err != nil && err.Error() != "":
		short = err.Error()
	default:
		short = MsgUnknownGeneration
	}

	return Failure{
		Short:    short,
		Detailed: short + detailsSeparator + DumpError(err),
	}
}

// DumpError serializes an error and every error it wraps, including exported
// fields of structured error types, as indented JSON.
func DumpError(err error) string {
	if err == nil {
		return "{}"
	}
	out, marshalErr := json.MarshalIndent(describeError(err), "", "  ")
	if marshalErr != nil {
		return fmt.Sprintf(`{"type": %q, "message": %q}`, fmt.Sprintf("%T", err), err.Error())
	}
	return string(out)
}

func describeError(err error) map[string]interface{} {
	fields := map[string]interface{}{}

	if raw, e := json.Marshal(err); e == nil && len(raw) > 2 && raw[0] == '{' {
		_ = json.Unmarshal(raw, &fields)
	}

	fields["type"] = fmt.Sprintf("%T", err)
	fields["message"] = err.Error()

	switch wrapped := err.(type) {
	case interface{ Unwrap() []error }:
		causes := make([]map[string]interface{}, 0)
		for _, e := range wrapped.Unwrap() {
			if e != nil {
				causes = append(causes, describeError(e))
			}
		}
		fields["causes"] = causes
	default:
		if next := errors.Unwrap(err); next != nil {
			fields["cause"] = describeError(next)
		}
	}

	return fields
}
