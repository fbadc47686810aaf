package main

import (
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const metadataDelimiter = "---"

type ErrorKind string

const (
	KindMalformedMetadata ErrorKind = "malformed metadata"
	KindEmptyBody         ErrorKind = "empty body"
)

type ParseError struct {
	Kind ErrorKind
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

func (e *ParseError) Cause() error { return e.Err }

// Kind reports the parse error kind of err, or "" if err is not a ParseError.
func Kind(err error) ErrorKind {
	for err != nil {
		if pe, ok := err.(*ParseError); ok {
			return pe.Kind
		}
		cause, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return ""
}

func malformed(err error) error {
	return &ParseError{Kind: KindMalformedMetadata, Err: err}
}

type frontMatter struct {
	Layout      string     `yaml:"layout"`
	Title       string     `yaml:"title"`
	Date        *stampTime `yaml:"date"`
	Categories  []string   `yaml:"categories"`
	Tags        []string   `yaml:"tag"`
	Description string     `yaml:"description"`
}

type stampTime struct {
	time.Time
}

var stampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04 -0700",
	time.RFC3339,
	"2006-01-02",
}

func (t *stampTime) UnmarshalYAML(value *yaml.Node) error {
	raw := strings.TrimSpace(value.Value)
	for _, layout := range stampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.Errorf("can't parse date %q", raw)
}

// ParsePost splits the leading metadata block from the body and decodes the
// recognized fields. Body text is kept verbatim. With strictBody set, a post
// whose body is empty fails with the EmptyBody kind; otherwise an empty body
// is a valid post.
func ParsePost(fileName string, content []byte, strictBody bool) (Post, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], " \t") != metadataDelimiter {
		return Post{}, malformed(errors.Errorf("%s: metadata block missing", fileName))
	}

	closing := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == metadataDelimiter {
			closing = i
			break
		}
	}
	if closing == -1 {
		return Post{}, malformed(errors.Errorf("%s: metadata block unterminated", fileName))
	}

	var fm frontMatter
	meta := strings.Join(lines[1:closing], "\n")
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return Post{}, malformed(errors.Wrapf(err, "%s: can't decode metadata", fileName))
	}
	if fm.Title == "" {
		return Post{}, malformed(errors.Errorf("%s: title missing", fileName))
	}
	if fm.Date == nil {
		return Post{}, malformed(errors.Errorf("%s: date missing", fileName))
	}

	body := strings.Join(lines[closing+1:], "\n")
	body = strings.TrimLeft(body, "\n")
	body = strings.TrimRight(body, "\n")
	if body == "" && strictBody {
		return Post{}, &ParseError{Kind: KindEmptyBody, Err: errors.Errorf("%s: no body text follows the metadata", fileName)}
	}

	return Post{
		Slug:        Slug(fileName),
		Layout:      fm.Layout,
		Title:       fm.Title,
		Published:   fm.Date.Time,
		Categories:  normalizeCategories(fm.Categories),
		Tags:        normalizeTags(fm.Tags),
		Description: fm.Description,
		Body:        body,
	}, nil
}

// normalizeCategories keeps author order, dropping blanks.
func normalizeCategories(categories []string) []string {
	result := make([]string, 0, len(categories))
	for _, c := range categories {
		c = strings.TrimSpace(c)
		if c != "" {
			result = append(result, c)
		}
	}
	return result
}

// normalizeTags treats tags as a set: case-insensitive dedup, sorted.
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		result = append(result, t)
	}
	sort.Strings(result)
	return result
}
