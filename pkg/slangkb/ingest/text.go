package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// TermID derives the stable identity of a term from its display title:
// NFKC-normalised (full-width letters fold to ASCII) with whitespace
// trimmed and collapsed. An empty result means the title is unusable.
func TermID(title string) string {
	return strings.Join(strings.Fields(norm.NFKC.String(title)), " ")
}

// DisplayTitle trims and collapses whitespace but keeps the original glyphs.
func DisplayTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "blockquote": true, "section": true,
}

// tagPattern matches a complete tag; text like "hp<max" is not markup.
var tagPattern = regexp.MustCompile(`</?[A-Za-z][^<>]*>`)

// FlattenText turns a definition that may carry HTML fragments into plain
// text. Tags are dropped, entities decoded, block elements become paragraph
// breaks, and script/style content is removed. Input without a complete tag
// is only entity-decoded.
func FlattenText(s string) string {
	if !tagPattern.MatchString(s) {
		if strings.Contains(s, "&") {
			s = html.UnescapeString(s)
		}
		return tidyLines(s)
	}
	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// A tag left open at EOF is literal text.
			if skip == 0 {
				b.Write(z.Raw())
			}
			return tidyLines(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tt == html.StartTagToken && (tag == "script" || tag == "style") {
				skip++
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		}
	}
}

// tidyLines collapses whitespace within lines and keeps at most one blank
// line between paragraphs.
func tidyLines(s string) string {
	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			blank = len(out) > 0
			continue
		}
		if blank {
			out = append(out, "")
			blank = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
