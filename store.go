package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"golang.org/x/net/html/charset"
)

type LoadFailure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type FacetCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Store holds the parsed posts of one content directory. Load replaces the
// whole snapshot; a parse failure on one file never affects the others.
type Store struct {
	dir        string
	strictBody bool

	mu       sync.RWMutex
	posts    []Post
	bySlug   map[string]Post
	failures []LoadFailure
}

func NewStore(dir string, strictBody bool) *Store {
	return &Store{
		dir:        dir,
		strictBody: strictBody,
	}
}

func (s *Store) Load() error {
	files, err := s.contentFiles()
	if err != nil {
		return err
	}

	posts := make([]Post, 0, len(files))
	bySlug := make(map[string]Post, len(files))
	slugFiles := make(map[string]string, len(files))
	failures := []LoadFailure{}
	for _, file := range files {
		rel, relErr := filepath.Rel(s.dir, file)
		if relErr != nil {
			rel = file
		}
		post, err := s.loadFile(file)
		if err != nil {
			failures = append(failures, LoadFailure{File: rel, Reason: err.Error()})
			continue
		}
		if first, ok := slugFiles[post.Slug]; ok {
			failures = append(failures, LoadFailure{
				File:   rel,
				Reason: fmt.Sprintf("duplicate slug %q, already used by %s", post.Slug, first),
			})
			continue
		}
		slugFiles[post.Slug] = rel
		posts = append(posts, post)
		bySlug[post.Slug] = post
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Published.After(posts[j].Published)
	})

	s.mu.Lock()
	s.posts = posts
	s.bySlug = bySlug
	s.failures = failures
	s.mu.Unlock()
	return nil
}

func (s *Store) contentFiles() ([]string, error) {
	var files []string
	err := filepath.Walk(s.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".md", ".markdown":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "can't walk content directory %s", s.dir)
	}
	sort.Strings(files)
	return files, nil
}

// loadFile reads and parses one content file. Files are expected to be UTF-8;
// a BOM-declared encoding is honored, and invalid UTF-8 is re-decoded as
// windows-1252 (the charset fallback).
func (s *Store) loadFile(path string) (Post, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Post{}, errors.Wrapf(err, "can't read %s", path)
	}

	content := raw
	contentEncoding, _, certain := charset.DetermineEncoding(raw, "text/plain")
	if certain || !utf8.Valid(raw) {
		content, err = contentEncoding.NewDecoder().Bytes(raw)
		if err != nil {
			return Post{}, errors.Wrapf(err, "can't decode %s", path)
		}
	}

	return ParsePost(filepath.Base(path), content, s.strictBody)
}

func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	posts := make([]Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

func (s *Store) Post(slug string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	post, ok := s.bySlug[slug]
	return post, ok
}

func (s *Store) PostsByCategory(category string) []Post {
	return s.filter(func(p Post) bool { return p.HasCategory(category) })
}

func (s *Store) PostsByTag(tag string) []Post {
	return s.filter(func(p Post) bool { return p.HasTag(tag) })
}

func (s *Store) filter(keep func(Post) bool) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []Post{}
	for _, p := range s.posts {
		if keep(p) {
			result = append(result, p)
		}
	}
	return result
}

func (s *Store) Categories() []FacetCount {
	return s.facets(func(p Post) []string { return p.Categories })
}

func (s *Store) Tags() []FacetCount {
	return s.facets(func(p Post) []string { return p.Tags })
}

func (s *Store) facets(values func(Post) []string) []FacetCount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := map[string]int{}
	for _, p := range s.posts {
		for _, v := range values(p) {
			counts[v]++
		}
	}
	result := make([]FacetCount, 0, len(counts))
	for name, count := range counts {
		result = append(result, FacetCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

func (s *Store) Failures() []LoadFailure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	failures := make([]LoadFailure, len(s.failures))
	copy(failures, s.failures)
	return failures
}

// Watch re-loads the store when content files change. It blocks until stop is
// closed.
func (s *Store) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "can't create a content watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(s.dir); err != nil {
		return errors.Wrapf(err, "can't watch content directory %s", s.dir)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			switch strings.ToLower(filepath.Ext(event.Name)) {
			case ".md", ".markdown":
			default:
				continue
			}
			if err := s.Load(); err != nil {
				log.Printf("can't reload content: %v", err)
				continue
			}
			log.Printf("content reloaded after %s on %s", event.Op, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("content watcher: %v", err)
		case <-stop:
			return nil
		}
	}
}
