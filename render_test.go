package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRendererHTML(t *testing.T) {
	renderer := NewRenderer()

	t.Run("markdown to html", func(t *testing.T) {
		htmlContent, err := renderer.HTML(Post{Slug: "x", Body: "## Heading\n\nsome *text*"})
		require.NoError(t, err)
		assert.Contains(t, htmlContent, "<h2>Heading</h2>")
		assert.Contains(t, htmlContent, "<em>text</em>")
	})

	t.Run("emoji shortcodes expanded", func(t *testing.T) {
		htmlContent, err := renderer.HTML(Post{Slug: "x", Body: "shipped :tada:"})
		require.NoError(t, err)
		assert.NotContains(t, htmlContent, ":tada:")
	})

	t.Run("gfm table", func(t *testing.T) {
		htmlContent, err := renderer.HTML(Post{Slug: "x", Body: "| a | b |\n|---|---|\n| 1 | 2 |"})
		require.NoError(t, err)
		assert.Contains(t, htmlContent, "<table>")
	})
}

func TestRendererExcerpt(t *testing.T) {
	renderer := NewRenderer()

	t.Run("short text unchanged", func(t *testing.T) {
		assert.Equal(t, "one two three", renderer.Excerpt("<p>one two three</p>"))
	})

	t.Run("long text capped at fifteen words", func(t *testing.T) {
		words := make([]string, 20)
		for i := range words {
			words[i] = "word"
		}
		excerpt := renderer.Excerpt("<p>" + strings.Join(words, " ") + "</p>")
		assert.Len(t, strings.Fields(excerpt), 15)
	})

	t.Run("leading punctuation trimmed", func(t *testing.T) {
		assert.Equal(t, "hello there", renderer.Excerpt("<p>-- hello there</p>"))
	})

	t.Run("joins block elements", func(t *testing.T) {
		assert.Equal(t, "Heading text", renderer.Excerpt("<h2>Heading</h2><p>text</p>"))
	})
}
