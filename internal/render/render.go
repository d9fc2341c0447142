// Package render produces the HTML of pages and recitation items.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Nixie-Tech-LLC/tilawat/internal/model"
	"github.com/Nixie-Tech-LLC/tilawat/internal/video"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded templates. It is safe for concurrent use.
type Renderer struct {
	tpl *template.Template
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Route string
	Label string
}

// Nav is the navigation bar in display order.
var Nav = []NavItem{
	{Route: "home", Label: "الرئيسية"},
	{Route: "random", Label: "عشوائي"},
	{Route: "about", Label: "حول"},
	{Route: "addRecitation", Label: "إضافة تلاوة"},
	{Route: "mostLiked", Label: "الأكثر إعجابًا"},
}

// LayoutData fills the document shell around a page.
type LayoutData struct {
	Title   string
	Active  string
	Query   string
	Content template.HTML
	Nav     []NavItem
}

type recitationView struct {
	Rec      model.Recitation
	Label    string
	EmbedURL string
}

func New() (*Renderer, error) {
	r := &Renderer{}
	tpl, err := template.New("").Funcs(template.FuncMap{
		"recitation":  r.Recitation,
		"likingLabel": func() string { return LabelLiking },
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.tpl = tpl
	return r, nil
}

// Recitation renders one recitation item: an embedded player when the URL
// is a recognised video link, otherwise a plain outbound link.
func (r *Renderer) Recitation(rec model.Recitation) (template.HTML, error) {
	view := recitationView{Rec: rec, Label: rec.ContextLabel()}
	if id, ok := video.ExtractEmbedID(rec.URL); ok {
		view.EmbedURL = video.EmbedURL(id)
	}
	return r.Page("recitation", view)
}

// Page executes the named template into a fragment.
func (r *Renderer) Page(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// Message renders a single line of text as a fragment.
func (r *Renderer) Message(text string) template.HTML {
	out, err := r.Page("message", text)
	if err != nil {
		return template.HTML("<p>" + template.HTMLEscapeString(text) + "</p>")
	}
	return out
}

// Layout writes the full document.
func (r *Renderer) Layout(w io.Writer, data LayoutData) error {
	if data.Nav == nil {
		data.Nav = Nav
	}
	return r.tpl.ExecuteTemplate(w, "layout", data)
}
