package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

type Server struct {
	port     int
	store    *Store
	renderer *Renderer
	feed     *FeedProvider
}

func NewServer(port int, store *Store, renderer *Renderer, feed *FeedProvider) *Server {
	return &Server{
		port:     port,
		store:    store,
		renderer: renderer,
		feed:     feed,
	}
}

func (s *Server) Start() {
	log.Printf("started on :%d\n", s.port)
	err := http.ListenAndServe(fmt.Sprintf(":%d", s.port), s.Handler())
	if err != nil {
		log.Fatal(err)
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	s.setupMiddlewares(r)

	r.Mount("/posts", PostsRouter(s.store, s.renderer))
	r.Mount("/feed", FeedRouter(s.feed))
	r.Mount("/", FacetsRouter(s.store))

	return r
}

func (s *Server) setupMiddlewares(r *chi.Mux) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
}
