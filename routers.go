package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi"
)

type postSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Published   time.Time `json:"published"`
	Categories  []string  `json:"categories"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	Excerpt     string    `json:"excerpt,omitempty"`
}

type postDetail struct {
	postSummary
	Layout string `json:"layout,omitempty"`
	Body   string `json:"body"`
	HTML   string `json:"html"`
}

func PostsRouter(store *Store, renderer *Renderer) http.Handler {
	router := &postsRouter{
		store:    store,
		renderer: renderer,
	}
	r := chi.NewRouter()
	r.Get("/", router.listPosts)
	r.Get("/{slug}", router.getPost)
	return r
}

type postsRouter struct {
	store    *Store
	renderer *Renderer
}

func (pr *postsRouter) listPosts(w http.ResponseWriter, r *http.Request) {
	var posts []Post
	switch {
	case r.URL.Query().Get("category") != "":
		posts = pr.store.PostsByCategory(r.URL.Query().Get("category"))
	case r.URL.Query().Get("tag") != "":
		posts = pr.store.PostsByTag(r.URL.Query().Get("tag"))
	default:
		posts = pr.store.Posts()
	}

	summaries := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, pr.summary(post))
	}
	writeJSON(w, summaries)
}

func (pr *postsRouter) getPost(w http.ResponseWriter, r *http.Request) {
	post, ok := pr.store.Post(chi.URLParam(r, "slug"))
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	htmlContent, err := pr.renderer.HTML(post)
	if err != nil {
		log.Println(err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(err.Error()))
		return
	}

	writeJSON(w, postDetail{
		postSummary: pr.makeSummary(post, pr.renderer.Excerpt(htmlContent)),
		Layout:      post.Layout,
		Body:        post.Body,
		HTML:        htmlContent,
	})
}

func (pr *postsRouter) summary(post Post) postSummary {
	excerpt := ""
	if htmlContent, err := pr.renderer.HTML(post); err == nil {
		excerpt = pr.renderer.Excerpt(htmlContent)
	}
	return pr.makeSummary(post, excerpt)
}

func (pr *postsRouter) makeSummary(post Post, excerpt string) postSummary {
	return postSummary{
		Slug:        post.Slug,
		Title:       post.Title,
		Published:   post.Published,
		Categories:  post.Categories,
		Tags:        post.Tags,
		Description: post.Description,
		Excerpt:     excerpt,
	}
}

func FacetsRouter(store *Store) http.Handler {
	r := chi.NewRouter()
	r.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Categories())
	})
	r.Get("/tags", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Tags())
	})
	r.Get("/report", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, store.Failures())
	})
	return r
}

func FeedRouter(provider *FeedProvider) http.Handler {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		feed, err := provider.Feed()
		if err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(err.Error()))
			return
		}

		rss, err := feed.ToRss()
		if err != nil {
			log.Println(err)
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(err.Error()))
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
		_, _ = w.Write([]byte(rss))
	})
	return r
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println(err)
	}
}
