package app

import (
	"github.com/Nixie-Tech-LLC/tilawat/internal/events"
	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

// Site holds what the pages of every visitor share.
type Site struct {
	API      API
	Renderer *render.Renderer
	Likes    *likes.Repository
	Catalogs *Catalogs
	Events   events.Publisher
}

// For returns the pages as seen by visitor.
func (s *Site) For(visitor string) *Pages {
	return NewPages(s.API, s.Renderer, s.Likes.For(visitor), s.Catalogs.For(visitor), s.Events)
}

// Router returns a router rendering the pages of visitor into view.
func (s *Site) Router(visitor string, view View, mirror Mirror) *Router {
	router := NewRouter(s.Renderer, view, mirror)
	s.For(visitor).Register(router)
	return router
}
