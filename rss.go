package main

import (
	"log"

	"github.com/gorilla/feeds"
)

const maxFeedItems = 30

type FeedProvider struct {
	store    *Store
	renderer *Renderer
	title    string
	baseURL  string
}

func NewFeedProvider(store *Store, renderer *Renderer, title, baseURL string) *FeedProvider {
	return &FeedProvider{
		store:    store,
		renderer: renderer,
		title:    title,
		baseURL:  baseURL,
	}
}

func (p *FeedProvider) Feed() (*feeds.Feed, error) {
	posts := p.store.Posts()
	if len(posts) > maxFeedItems {
		posts = posts[:maxFeedItems]
	}

	feed := &feeds.Feed{
		Title: p.title,
		Link:  &feeds.Link{Href: p.baseURL},
		Id:    p.baseURL,
	}

	for _, post := range posts {
		htmlContent, err := p.renderer.HTML(post)
		if err != nil {
			log.Printf("skipping post %s in feed: %v", post.Slug, err)
			continue
		}

		description := post.Description
		if description == "" {
			description = p.renderer.Excerpt(htmlContent)
		}

		link := p.baseURL + "/posts/" + post.Slug
		item := &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Created:     post.Published,
			Description: description,
			Content:     htmlContent,
		}
		feed.Items = append(feed.Items, item)
	}

	return feed, nil
}
