package main

import (
	"bytes"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/kyokomi/emoji"
	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

const (
	excerptMinRunes = 50
	excerptMaxWords = 15
)

type Renderer struct {
	markdown goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}
}

// HTML renders the post body to HTML with :emoji: shortcodes expanded.
func (r *Renderer) HTML(post Post) (string, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(post.Body), &buf); err != nil {
		return "", errors.Wrapf(err, "can't render post %s", post.Slug)
	}
	return emoji.Sprint(buf.String()), nil
}

// Excerpt builds a short plain-text summary from rendered HTML: the text of
// the top-level nodes, leading non-letter/digit runes trimmed, capped at
// excerptMaxWords words when longer than excerptMinRunes runes.
func (r *Renderer) Excerpt(htmlContent string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return ""
	}

	var mainText bytes.Buffer
	doc.Find("body").Children().Each(func(i int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			child := n.FirstChild
			for child != nil {
				if child.Type == html.TextNode {
					mainText.WriteString(child.Data)
				}
				child = child.NextSibling
			}
		}
		mainText.WriteString(" ")
	})

	text := strings.TrimSpace(strings.TrimLeftFunc(mainText.String(), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}))
	text = strings.Join(strings.Fields(text), " ")

	if utf8.RuneCountInString(text) > excerptMinRunes {
		words := strings.Fields(text)
		if len(words) > excerptMaxWords {
			words = words[:excerptMaxWords]
		}
		text = strings.Join(words, " ")
	}
	return text
}
