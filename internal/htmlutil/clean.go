package htmlutil

import (
	"strings"

	"github.com/k3a/html2text"
)

// ToText converts HTML to plain text using a proper HTML parser.
// Handles entities, strips tags, turns <br> into line breaks, and trims
// surrounding whitespace.
func ToText(s string) string {
	return strings.TrimSpace(html2text.HTML2TextWithOptions(s, html2text.WithUnixLineBreaks()))
}
