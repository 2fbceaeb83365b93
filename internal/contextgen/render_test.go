package contextgen

import (
	"strings"
	"testing"

	"github.com/harrison/ctxgen/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	entries := []models.ContextEntry{
		{Path: "src/main.go", Content: "package main"},
		{Path: "README.md", Content: "# Title"},
	}

	tests := []struct {
		name         string
		instructions string
		entries      []models.ContextEntry
		want         string
	}{
		{
			name:    "files only",
			entries: entries,
			want:    "File: src/main.go\n```\npackage main\n```\n\nFile: README.md\n```\n# Title\n```",
		},
		{
			name:         "instructions only",
			instructions: "  Review this code.  ",
			want:         "Custom Instructions for LLM\nUser Instructions: Review this code.",
		},
		{
			name:         "instructions and files",
			instructions: "Explain.",
			entries:      entries[:1],
			want:         "Custom Instructions for LLM\nUser Instructions: Explain.\n\n---\n\nFile: src/main.go\n```\npackage main\n```",
		},
		{
			name:         "instructions with no surviving files",
			instructions: "Explain.",
			entries:      []models.ContextEntry{},
			want:         "Custom Instructions for LLM\nUser Instructions: Explain.",
		},
		{
			name:         "blank instructions are ignored",
			instructions: " \n\t",
			entries:      entries[1:],
			want:         "File: README.md\n```\n# Title\n```",
		},
		{
			name: "nothing to render",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.instructions, tt.entries))
		})
	}
}

func TestRender_EmbeddedFenceGetsLongerFence(t *testing.T) {
	out := Render("", []models.ContextEntry{{Path: "doc.md", Content: "```go\nx := 1\n```"}})

	assert.True(t, strings.HasPrefix(out, "File: doc.md\n````\n"), out)
	assert.True(t, strings.HasSuffix(out, "\n````"), out)
}

func TestRenderHTML(t *testing.T) {
	text := Render("Be brief.", []models.ContextEntry{{Path: "a.html", Content: "<script>alert(1)</script>"}})

	html, err := RenderHTML(text)
	require.NoError(t, err)

	assert.Contains(t, html, "<pre><code>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "<hr")
}
