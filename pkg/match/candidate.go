package match

import (
	"fmt"
	"strings"
)

// Candidate is one shelter dog row exactly as the data store returns it.
// Only name and image_url are interpreted; every other column is passed to the model untouched.
type Candidate map[string]interface{}

const (
	FieldName     = "name"
	FieldImageURL = "image_url"
)

func (c Candidate) Name() string {
	return c.stringField(FieldName)
}

func (c Candidate) ImageURL() string {
	return c.stringField(FieldImageURL)
}

func (c Candidate) stringField(key string) string {
	v, ok := c[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// ImageEmbed is the Markdown image reference a recommendation must end with.
func (c Candidate) ImageEmbed() string {
	return fmt.Sprintf("![%s](%s)", c.Name(), c.ImageURL())
}

// Recommended returns the candidate whose image embed closes the reply, if any.
func Recommended(reply string, candidates []Candidate) (Candidate, bool) {
	trimmed := strings.TrimSpace(reply)
	for _, c := range candidates {
		if c.ImageURL() == "" {
			continue
		}
		if strings.HasSuffix(trimmed, c.ImageEmbed()) {
			return c, true
		}
	}
	return nil, false
}
