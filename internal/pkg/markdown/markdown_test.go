package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	html := Render("# Title\n\nSome **bold** text.")
	assert.Contains(t, html, "<h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
}

func TestRenderAutolink(t *testing.T) {
	html := Render("see https://example.com for more")
	assert.Contains(t, html, `<a href="https://example.com"`)
}

func TestRenderEmptySource(t *testing.T) {
	assert.Equal(t, "", Render(""))
}
