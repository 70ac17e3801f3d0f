package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/inbucket/html2text"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags
	policy     = bluemonday.UGCPolicy()
)

// MarkdownToPlainText renders markdown down to plain text suitable for
// injection into a prompt context block: badges, raw HTML and scripts are
// stripped, links reduced to their text.
func MarkdownToPlainText(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	sanitized := policy.SanitizeBytes(unsafeHTML)

	text, err := html2text.FromString(string(sanitized), html2text.Options{
		OmitLinks: true,
		TextOnly:  true,
	})
	if err != nil {
		// Degrade to the raw markdown rather than losing the content.
		return strings.TrimSpace(string(md))
	}
	return strings.TrimSpace(text)
}
