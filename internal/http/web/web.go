// Package web serves the HTML pages.
package web

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/app"
	"github.com/Nixie-Tech-LLC/tilawat/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/tilawat/internal/quranapi"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

const title = "تلاوات القرآن"

// Query parameters carrying a failed like back to the page it was pressed on.
const (
	paramLikeFailed = "like_failed"
	paramLikeCount  = "like_count"
	paramLikeError  = "like_error"
)

// bufferView keeps the last content the router rendered.
type bufferView struct {
	content template.HTML
}

func (v *bufferView) Render(content template.HTML) { v.content = content }

// requestMirror is the request path. A change means the browser has to be
// sent elsewhere.
type requestMirror struct {
	fragment string
	changed  bool
}

func (m *requestMirror) Fragment() string { return m.fragment }

func (m *requestMirror) SetFragment(f string) {
	m.fragment = f
	m.changed = true
}

type PageController struct {
	site *app.Site
}

// Register mounts the page routes. r must already run middleware.Visitor.
func Register(r gin.IRoutes, site *app.Site) {
	ctl := &PageController{site: site}

	r.GET("/", ctl.page)
	r.GET("/:segment", ctl.page)
	r.GET("/:segment/*param", ctl.page)
	r.POST("/like/:id", ctl.like)
	r.POST("/"+app.SegmentAddRecitation, ctl.addRecitation)
}

func visitorID(c *gin.Context) string {
	id, ok := middleware.GetVisitorID(c)
	if !ok {
		log.Warn().Str("path", c.Request.URL.Path).Msg("request without visitor")
	}
	return id
}

// GET /:segment/*param
func (p *PageController) page(c *gin.Context) {
	raw := strings.Trim(c.Request.URL.Path, "/")
	requested := app.ParseRoute(raw)

	if requested.Segment == app.SegmentSearch && requested.Param == "" {
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			c.Redirect(http.StatusSeeOther, "/search/"+url.PathEscape(q))
			return
		}
	}

	view := &bufferView{}
	mirror := &requestMirror{fragment: raw}
	router := p.site.Router(visitorID(c), view, mirror)

	route := router.Navigate(c.Request.Context(), raw)
	if route.Segment != requested.Segment {
		c.Redirect(http.StatusSeeOther, "/"+mirror.Fragment())
		return
	}

	query := ""
	if route.Segment == app.SegmentSearch {
		query = route.Param
	}
	content := view.content
	if id := c.Query(paramLikeFailed); id != "" {
		content = p.markLikeFailed(content, id, c.Query(paramLikeCount), c.Query(paramLikeError))
	}
	p.write(c, http.StatusOK, route.Segment, query, content)
}

func (p *PageController) markLikeFailed(content template.HTML, id, count, msg string) template.HTML {
	if msg == "" {
		msg = quranapi.MsgUnknown
	}
	btn := app.FailedLikeButton(id, count, errors.New(msg))
	out, err := render.MarkLikeFailed(content, btn.ID, btn.Label(), "خطأ: "+msg, btn.Disabled())
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("error marking failed like")
		return content
	}
	return out
}

// POST /like/:id
func (p *PageController) like(c *gin.Context) {
	pages := p.site.For(visitorID(c))
	id, count := c.Param("id"), c.PostForm("count")
	back := backTo(c)
	if _, err := pages.Like(c.Request.Context(), id, count); err != nil {
		msg := quranapi.MsgUnknown
		if apiErr, ok := quranapi.AsError(err); ok {
			msg = apiErr.Message
		}
		back.Set(paramLikeFailed, strings.TrimSpace(id))
		back.Set(paramLikeCount, count)
		back.Set(paramLikeError, msg)
	}
	c.Redirect(http.StatusSeeOther, back.String())
}

// POST /addRecitation
func (p *PageController) addRecitation(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	pages := p.site.For(visitorID(c))
	form := app.FormFromValues(c.Request.PostForm)

	content, err := pages.SubmitForm(c.Request.Context(), form)
	if err != nil {
		log.Error().Err(err).Msg("error rendering add form")
		content = p.site.Renderer.Message(quranapi.MsgUnknown)
	}
	status := http.StatusOK
	if form.State == app.FormError {
		status = http.StatusUnprocessableEntity
	}
	p.write(c, status, app.SegmentAddRecitation, "", content)
}

func (p *PageController) write(c *gin.Context, status int, active, query string, content template.HTML) {
	var buf bytes.Buffer
	err := p.site.Renderer.Layout(&buf, render.LayoutData{
		Title:   title,
		Active:  active,
		Query:   query,
		Content: content,
	})
	if err != nil {
		log.Error().Err(err).Msg("error rendering layout")
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// location is a local path with its query.
type location struct {
	path  string
	query url.Values
}

func (l location) Set(key, value string) { l.query.Set(key, value) }

func (l location) String() string {
	if len(l.query) == 0 {
		return l.path
	}
	return l.path + "?" + l.query.Encode()
}

// backTo is the local page the browser came from, or home. Markers of an
// earlier failed like are dropped.
func backTo(c *gin.Context) location {
	home := location{path: "/" + app.SegmentHome, query: url.Values{}}
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return home
	}
	q, err := url.ParseQuery(ref.RawQuery)
	if err != nil {
		q = url.Values{}
	}
	q.Del(paramLikeFailed)
	q.Del(paramLikeCount)
	q.Del(paramLikeError)
	return location{path: ref.Path, query: q}
}
