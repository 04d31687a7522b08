package menu

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// blockTags end a line of text when they open or close.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"dd": true, "div": true, "dl": true, "dt": true, "figcaption": true,
	"footer": true, "h1": true, "h2": true, "h3": true, "h4": true,
	"h5": true, "h6": true, "header": true, "hr": true, "li": true,
	"main": true, "nav": true, "ol": true, "p": true, "section": true,
	"table": true, "td": true, "th": true, "tr": true, "ul": true,
}

// skipTags never contribute text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true, "template": true, "svg": true,
}

var leftoverTag = regexp.MustCompile(`<[^<>]+>`)

// Source line breaks inside a text node are plain whitespace.
var sourceBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Text returns the text of a selection with line structure preserved: <br>
// and block elements break lines, whitespace inside a line is collapsed, and
// blank lines are dropped.
func Text(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeText(&b, n)
		b.WriteByte('\n')
	}
	return cleanLines(b.String())
}

// Line returns the text of a selection on a single line.
func Line(s *goquery.Selection) string {
	return strings.ReplaceAll(Text(s), "\n", " ")
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(sourceBreaks.Replace(n.Data))
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if n.Data == "br" {
			b.WriteByte('\n')
			return
		}
	case html.CommentNode:
		return
	}

	block := n.Type == html.ElementNode && blockTags[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// CleanText normalises one raw fragment: entities are decoded, stray markup is
// removed, the text is NFC-composed and its whitespace collapsed.
func CleanText(s string) string {
	s = html.UnescapeString(s)
	s = leftoverTag.ReplaceAllString(s, " ")
	s = norm.NFC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

func cleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = CleanText(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

// Normalize turns raw candidate lines into a Result. Each candidate may span
// several lines; every line is cleaned, empty lines are dropped and exact
// duplicates are collapsed onto their first occurrence. Document order is kept.
func Normalize(raw []string) Result {
	seen := make(map[string]bool)
	var lines []string
	for _, r := range raw {
		for _, line := range strings.Split(r, "\n") {
			line = CleanText(line)
			if line == "" || seen[line] {
				continue
			}
			seen[line] = true
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return NotFound()
	}
	return Found(lines)
}
