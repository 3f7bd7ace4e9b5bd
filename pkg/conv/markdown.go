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
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func render(md []byte) []byte {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	return markdown.Render(p.Parse(md), renderer)
}

func MarkdownToTelegramHTML(md []byte) string {
	unsafeHTML := render(md)

	// Keep only the tags Telegram accepts.
	sanitized := tgPolicy.SanitizeBytes(unsafeHTML)

	return string(sanitized)
}

// MarkdownToPlainText renders markdown for terminals: emphasis markers and
// code ticks are dropped, links keep their URL.
func MarkdownToPlainText(md []byte) string {
	if len(md) == 0 {
		return ""
	}
	text, err := html2text.FromString(string(render(md)))
	if err != nil {
		return string(md)
	}
	return strings.TrimSpace(text)
}
