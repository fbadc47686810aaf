package main

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

type Post struct {
	Slug        string    `json:"slug"`
	Layout      string    `json:"layout,omitempty"`
	Title       string    `json:"title"`
	Published   time.Time `json:"published"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	Body        string    `json:"body"`
}

func (p Post) HasCategory(category string) bool {
	for _, c := range p.Categories {
		if strings.EqualFold(c, category) {
			return true
		}
	}
	return false
}

func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

var slugDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-`)

// Slug derives the post slug from its file name: extension dropped,
// an optional YYYY-MM-DD- prefix stripped.
func Slug(fileName string) string {
	name := filepath.Base(fileName)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return slugDatePrefix.ReplaceAllString(name, "")
}
