package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler is the platform handler type used everywhere
type Handler = func(http.ResponseWriter, *http.Request)

// Router is the minimal surface area we mount against
type Router interface {
	Get(path string, h Handler)
	Post(path string, h Handler)
	Put(path string, h Handler)
	Patch(path string, h Handler)
	Delete(path string, h Handler)

	Handle(path string, h http.Handler)
	Use(mw ...func(http.Handler) http.Handler)
	Route(pattern string, fn func(Router))

	Mux() http.Handler
}

// AdaptChi wraps a chi router in the platform Router seam
func AdaptChi(m chi.Router) Router { return chiRouter{m: m} }

type chiRouter struct{ m chi.Router }

func (r chiRouter) Get(path string, h Handler)    { r.m.Get(path, h) }
func (r chiRouter) Post(path string, h Handler)   { r.m.Post(path, h) }
func (r chiRouter) Put(path string, h Handler)    { r.m.Put(path, h) }
func (r chiRouter) Patch(path string, h Handler)  { r.m.Patch(path, h) }
func (r chiRouter) Delete(path string, h Handler) { r.m.Delete(path, h) }

func (r chiRouter) Handle(path string, h http.Handler) { r.m.Handle(path, h) }

func (r chiRouter) Use(mw ...func(http.Handler) http.Handler) { r.m.Use(mw...) }

func (r chiRouter) Route(pattern string, fn func(Router)) {
	r.m.Route(pattern, func(sub chi.Router) { fn(chiRouter{m: sub}) })
}

func (r chiRouter) Mux() http.Handler { return r.m }

// Param returns a chi URL parameter by name
func Param(r *http.Request, name string) string { return chi.URLParam(r, name) }
