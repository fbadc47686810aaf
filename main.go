package main

import (
	"flag"
	"log"
)

func main() {
	var (
		port       int
		contentDir string
		title      string
		baseURL    string
		strictBody bool
		watch      bool
	)

	flag.IntVar(&port, "port", 9001, "tcp port to listen")
	flag.StringVar(&contentDir, "content", "content", "directory with post files")
	flag.StringVar(&title, "title", "Blog", "feed title")
	flag.StringVar(&baseURL, "base-url", "http://localhost:9001", "base url used in feed links")
	flag.BoolVar(&strictBody, "strict", false, "reject posts with an empty body")
	flag.BoolVar(&watch, "watch", false, "reload posts when content files change")
	flag.Parse()

	store := NewStore(contentDir, strictBody)
	if err := store.Load(); err != nil {
		log.Fatal(err)
	}
	for _, failure := range store.Failures() {
		log.Printf("skipped %s: %s", failure.File, failure.Reason)
	}
	log.Printf("loaded %d posts from %s", len(store.Posts()), contentDir)

	if watch {
		go func() {
			if err := store.Watch(make(chan struct{})); err != nil {
				log.Printf("content watcher stopped: %v", err)
			}
		}()
	}

	renderer := NewRenderer()
	feed := NewFeedProvider(store, renderer, title, baseURL)

	server := NewServer(port, store, renderer, feed)
	server.Start()
}
