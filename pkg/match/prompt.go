package match

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PromptBuilder turns the user's wish and the shelter snapshot into one request for the model.
type PromptBuilder struct {
	query      string
	candidates []Candidate
}

func NewPromptBuilder(query string, candidates []Candidate) *PromptBuilder {
	return &PromptBuilder{
		query:      query,
		candidates: candidates,
	}
}

func (b *PromptBuilder) Build() (string, error) {
	list := b.candidates
	if list == nil {
		list = []Candidate{}
	}
	serialized, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("serialize candidates: %w", err)
	}

	var prompt strings.Builder

	prompt.WriteString("You are a dog expert. ")
	prompt.WriteString("The user is looking for: '")
	prompt.WriteString(b.query)
	prompt.WriteString("'. ")

	prompt.WriteString("We have ONLY these dogs available at the shelter: ")
	prompt.Write(serialized)
	prompt.WriteString(". ")

	prompt.WriteString("If one of these dogs matches the request, recommend it enthusiastically and describe it. ")
	prompt.WriteString("Otherwise give general advice. ")
	prompt.WriteString("Every dog in the list has an '")
	prompt.WriteString(FieldImageURL)
	prompt.WriteString("' field. ")
	prompt.WriteString("If you recommend a specific dog, you MUST include its photo at the end of the reply ")
	prompt.WriteString("using the exact Markdown syntax: ![Dog Name](IMAGE_URL).")

	return prompt.String(), nil
}
