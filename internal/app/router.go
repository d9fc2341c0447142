package app

import (
	"context"
	"fmt"
	"html/template"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

const msgLoadFailed = "خطأ في تحميل محتوى الصفحة."

// Controller renders the page of one route segment.
type Controller func(ctx context.Context, param string) (template.HTML, error)

// View is the content area the router renders into.
type View interface {
	Render(content template.HTML)
}

// Mirror is the external reflection of the current route, such as an
// address bar. The router is its only writer.
type Mirror interface {
	Fragment() string
	SetFragment(fragment string)
}

type State int

const (
	StateIdle State = iota
	StateLoading
)

func (s State) String() string {
	if s == StateLoading {
		return "loading"
	}
	return "idle"
}

// Router maps routes to controllers and owns the navigation state.
//
// Every navigation is numbered; when a controller finishes after a newer
// navigation has started, its output is dropped.
type Router struct {
	renderer *render.Renderer
	view     View
	mirror   Mirror

	mu      sync.Mutex
	routes  map[string]Controller
	seq     uint64
	state   State
	current Route
}

func NewRouter(renderer *render.Renderer, view View, mirror Mirror) *Router {
	return &Router{
		renderer: renderer,
		view:     view,
		mirror:   mirror,
		routes:   make(map[string]Controller),
	}
}

// Handle registers the controller of a segment.
func (r *Router) Handle(segment string, c Controller) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[segment] = c
}

func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Current is the route of the last completed navigation.
func (r *Router) Current() Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Sync navigates to whatever the mirror currently shows.
func (r *Router) Sync(ctx context.Context) Route {
	return r.Navigate(ctx, r.mirror.Fragment())
}

// Navigate shows the loading placeholder, runs the controller of raw and
// renders its output. Unknown segments fall back to home. Controller
// failures are rendered as a message and never returned.
func (r *Router) Navigate(ctx context.Context, raw string) Route {
	route := ParseRoute(raw)

	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.state = StateLoading
	r.view.Render(r.renderer.Message("جار التحميل..."))

	ctrl, ok := r.routes[route.Segment]
	if !ok {
		log.Warn().Str("route", raw).Msg("route not found, defaulting to home")
		route = Route{Segment: SegmentHome}
		ctrl = r.routes[SegmentHome]
		r.mirror.SetFragment(route.String())
	} else if r.mirror.Fragment() != route.String() {
		r.mirror.SetFragment(route.String())
	}
	r.mu.Unlock()

	content, err := r.run(ctx, ctrl, route)

	r.mu.Lock()
	defer r.mu.Unlock()
	if seq != r.seq {
		log.Debug().Str("route", route.String()).Uint64("seq", seq).Uint64("latest", r.seq).Msg("discarding stale navigation")
		return route
	}
	if err != nil {
		log.Error().Err(err).Str("route", route.String()).Msg("error rendering page")
		content = r.renderer.Message(failureMessage(err))
	}
	r.view.Render(content)
	r.state = StateIdle
	r.current = route
	return route
}

func (r *Router) run(ctx context.Context, ctrl Controller, route Route) (content template.HTML, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("controller %q panicked: %v", route.Segment, p)
		}
	}()
	if ctrl == nil {
		return "", fmt.Errorf("no controller for %q", route.Segment)
	}
	return ctrl(ctx, route.Param)
}

func failureMessage(err error) string {
	if apiErr, ok := quranapi.AsError(err); ok {
		return msgLoadFailed + " " + apiErr.Message
	}
	return msgLoadFailed
}
