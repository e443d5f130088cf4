package render

import (
	"html"
	"regexp"
	"strings"
)

var (
	fencedCode = regexp.MustCompile("(?s)```(.*?)```")
	bold       = regexp.MustCompile(`\*\*(.*?)\*\*`)
)

// HTML renders message text as a bubble body: fenced code blocks become <pre><code>,
// **bold** becomes <b>, newlines become <br>. Text is escaped first.
func HTML(content string) string {
	out := html.EscapeString(content)
	out = fencedCode.ReplaceAllString(out, "<pre><code>$1</code></pre>")
	out = bold.ReplaceAllString(out, "<b>$1</b>")
	return strings.ReplaceAll(out, "\n", "<br>")
}
