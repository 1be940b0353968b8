// File: internal/services/render/markdown.go
package render

import (
	"bytes"
	"log"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown converts assistant reply text to HTML for display. On a
// conversion error the raw text is returned so the reply is never lost.
func Markdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		log.Printf("[Render] Markdown conversion failed: %v", err)
		return source
	}
	return buf.String()
}
