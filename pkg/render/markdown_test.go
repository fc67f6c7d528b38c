package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderImageEmbed(t *testing.T) {
	out := string(NewMarkdown().Render("Meet **Rex**!\n\n![Rex](https://example.com/rex.jpg)"))

	assert.Contains(t, out, "<strong>Rex</strong>")
	assert.Contains(t, out, `src="https://example.com/rex.jpg"`)
	assert.Contains(t, out, `alt="Rex"`)
}

func TestRenderStripsScripts(t *testing.T) {
	out := string(NewMarkdown().Render("hi <script>alert(1)</script> [x](javascript:alert(1))"))

	assert.NotContains(t, out, "<script>")
	assert.False(t, strings.Contains(out, "javascript:"), out)
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", string(NewMarkdown().Render("")))
}

func TestRenderTable(t *testing.T) {
	out := string(NewMarkdown().Render("| Name | Size |\n|---|---|\n| Rex | big |"))

	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>Rex</td>")
}
