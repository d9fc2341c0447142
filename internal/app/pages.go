// Package app holds the page controllers, the router that drives them and
// the state machines of the interactive controls.
package app

import (
	"context"
	"html/template"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/tilawat/internal/events"
	"github.com/Nixie-Tech-LLC/tilawat/internal/likes"
	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/render"
)

const (
	msgInvalidJuz   = "رقم الجزء غير صالح."
	msgInvalidSurah = "رقم السورة غير صالح."
)

// API is the backend used by the pages.
type API interface {
	SurahLister
	Juz(ctx context.Context, n int) (model.JuzDetail, error)
	Surah(ctx context.Context, id int) (model.SurahDetail, error)
	Random(ctx context.Context) (model.Recitation, error)
	MostLiked(ctx context.Context) ([]model.Recitation, error)
	Search(ctx context.Context, q string) ([]model.Recitation, error)
	AddRecitation(ctx context.Context, in model.NewRecitation) (model.Recitation, error)
	Like(ctx context.Context, id string) (model.LikeResult, error)
}

// Pages renders the pages of one visitor.
type Pages struct {
	api      API
	renderer *render.Renderer
	likes    *likes.Store
	catalog  *Catalog
	events   events.Publisher
}

func NewPages(api API, renderer *render.Renderer, store *likes.Store, catalog *Catalog, pub events.Publisher) *Pages {
	if pub == nil {
		pub = events.Noop{}
	}
	return &Pages{api: api, renderer: renderer, likes: store, catalog: catalog, events: pub}
}

// Register installs every page controller on router.
func (p *Pages) Register(router *Router) {
	router.Handle(SegmentHome, p.Home)
	router.Handle(SegmentJuz, p.Juz)
	router.Handle(SegmentSurah, p.Surah)
	router.Handle(SegmentRandom, p.Random)
	router.Handle(SegmentAbout, p.About)
	router.Handle(SegmentAddRecitation, p.AddRecitation)
	router.Handle(SegmentMostLiked, p.MostLiked)
	router.Handle(SegmentSearch, p.Search)
}

func (p *Pages) Home(_ context.Context, _ string) (template.HTML, error) {
	return p.renderer.Page("home", juzNumbers())
}

type juzPage struct {
	Number int
	Detail model.JuzDetail
}

func (p *Pages) Juz(ctx context.Context, param string) (template.HTML, error) {
	n, err := strconv.Atoi(param)
	if err != nil || !model.ValidJuz(n) {
		return p.renderer.Message(msgInvalidJuz), nil
	}
	detail, err := p.api.Juz(ctx, n)
	if err != nil {
		return "", err
	}
	return p.bind(ctx, "juz", juzPage{Number: n, Detail: detail})
}

func (p *Pages) Surah(ctx context.Context, param string) (template.HTML, error) {
	id, err := strconv.Atoi(param)
	if err != nil || !model.ValidSurah(id) {
		return p.renderer.Message(msgInvalidSurah), nil
	}
	detail, err := p.api.Surah(ctx, id)
	if err != nil {
		return "", err
	}
	return p.bind(ctx, "surah", detail)
}

func (p *Pages) Random(ctx context.Context, _ string) (template.HTML, error) {
	rec, err := p.api.Random(ctx)
	if err != nil {
		return "", err
	}
	return p.bind(ctx, "random", rec)
}

func (p *Pages) MostLiked(ctx context.Context, _ string) (template.HTML, error) {
	list, err := p.api.MostLiked(ctx)
	if err != nil {
		return "", err
	}
	return p.bind(ctx, "most_liked", list)
}

type searchPage struct {
	Query   string
	Results []model.Recitation
}

func (p *Pages) Search(ctx context.Context, param string) (template.HTML, error) {
	q := strings.TrimSpace(param)
	page := searchPage{Query: q}
	if q != "" {
		results, err := p.api.Search(ctx, q)
		if err != nil {
			return "", err
		}
		page.Results = results
	}
	return p.bind(ctx, "search", page)
}

func (p *Pages) About(_ context.Context, _ string) (template.HTML, error) {
	return p.renderer.Page("about", nil)
}

// AddRecitation shows an empty form and reloads the chapter catalog.
func (p *Pages) AddRecitation(ctx context.Context, _ string) (template.HTML, error) {
	if err := p.catalog.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load surah catalog")
	}
	return p.RenderForm(&Form{})
}

func (p *Pages) RenderForm(f *Form) (template.HTML, error) {
	return p.renderer.Page("add", f)
}

// SubmitForm submits f and renders the form in its resulting state.
func (p *Pages) SubmitForm(ctx context.Context, f *Form) (template.HTML, error) {
	if rec, ok := f.Submit(ctx, p.api); ok {
		p.publish(ctx, events.TopicAdded, events.Added{
			ID:          rec.ID,
			ReciterName: rec.ReciterName,
			URL:         rec.URL,
			Context:     rec.ContextLabel(),
		})
	}
	return p.RenderForm(f)
}

// SearchSurahs answers the autocomplete of the add form.
func (p *Pages) SearchSurahs(ctx context.Context, q string) ([]SurahOption, error) {
	return p.catalog.Search(ctx, q)
}

// Like presses the like button of id. count is the count currently shown.
// A recitation already liked from this browser is not sent again, and
// presses that arrive while one is pending wait for it instead of sending
// their own request.
func (p *Pages) Like(ctx context.Context, id, count string) (*LikeButton, error) {
	id = likes.CanonicalID(id)
	if id == "" {
		return nil, likes.ErrEmptyID
	}
	v, err := p.likes.Claim(id, func() (any, error) {
		return p.like(ctx, id, count)
	})
	btn, _ := v.(*LikeButton)
	return btn, err
}

func (p *Pages) like(ctx context.Context, id, count string) (*LikeButton, error) {
	liked, err := p.likes.IsLiked(ctx, id)
	if err != nil {
		return nil, err
	}

	btn := BindLikeButton(id, count, liked)
	if !btn.Click() {
		return btn, nil
	}

	res, err := p.api.Like(ctx, id)
	btn.Resolve(res, err)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("error liking recitation")
		return btn, err
	}

	if err := p.likes.Add(ctx, id); err != nil {
		log.Error().Err(err).Str("id", id).Msg("error saving liked recitation")
	}
	p.publish(ctx, events.TopicLiked, events.Liked{ID: res.ID, Likes: *res.Likes})
	return btn, nil
}

func (p *Pages) bind(ctx context.Context, name string, data any) (template.HTML, error) {
	out, err := p.renderer.Page(name, data)
	if err != nil {
		return "", err
	}
	liked, err := p.likes.LikedIDs(ctx)
	if err != nil {
		log.Warn().Err(err).Str("key", p.likes.Key()).Msg("could not read liked recitations")
		liked = likes.Set{}
	}
	return render.BindLikeButtons(out, liked)
}

func (p *Pages) publish(ctx context.Context, topic string, payload any) {
	if err := p.events.Publish(ctx, topic, payload); err != nil {
		log.Warn().Err(err).Str("topic", topic).Msg("could not publish event")
	}
}
