// Package site renders the home page: the header, the work history, the
// content cards with their panels and the now playing widget.
package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/nordlys/portfolio/content"
	"github.com/nordlys/portfolio/panel"
)

//go:embed templates/*.html
var templates embed.FS

const recentCount = 3

var experience = []string{
	"Currently developing AI applications at Ericsson and making it beautiful",
	"Previously studied frontend development",
	"Before that I was working in different fields as salesperson and industrial worker",
	"I have been lucky to find my passion for AI development",
}

type Page struct {
	Name       string
	Role       string
	Experience []string
	Sections   []Section
	Widget     Widget
	Location   string
	Email      string
}

type Section struct {
	Title string
	Cards []Card
}

// Card is a content item as it appears in one section. Each card is its own
// panel instance; OpenHref and CloseHref keep the rest of the query intact.
type Card struct {
	content.LinkItem
	PanelID   string
	Open      bool
	Visible   bool
	OpenHref  string
	CloseHref string
}

type Site struct {
	library *content.Library
	tmpl    *template.Template
	path    string
}

func New(library *content.Library) (*Site, error) {
	tmpl, err := template.New("page.html").ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Site{
		library: library,
		tmpl:    tmpl,
		path:    "/",
	}, nil
}

// Build lays out the page for a request. A fresh panel registry is used for
// every build, so the first card mounted for the open slug is the one whose
// panel renders, however many sections the item shows up in.
func (s *Site) Build(query url.Values, widget Widget) Page {
	registry := panel.NewRegistry()
	sections := []Section{
		s.section(registry, query, "Recent", s.library.Recent(recentCount)),
		s.section(registry, query, "Work", s.library.ByCategory(content.Work)),
		s.section(registry, query, "Writing", s.library.ByCategory(content.Writing)),
	}
	return Page{
		Name:       "Elias Englesson",
		Role:       "AI Developer",
		Experience: experience,
		Sections:   sections,
		Widget:     widget,
		Location:   "Gothenburg, SE",
		Email:      "eliasenglesson00@gmail.com",
	}
}

func (s *Site) section(registry *panel.Registry, query url.Values, title string, items []content.Item) Section {
	section := Section{Title: title}
	for _, link := range content.ToLinkItems(items) {
		mount := registry.Mount(query, link.Slug)
		section.Cards = append(section.Cards, Card{
			LinkItem:  link,
			PanelID:   mount.ID,
			Open:      mount.Open,
			Visible:   mount.Visible,
			OpenHref:  panel.Href(s.path, panel.SetOpen(query, link.Slug, true)),
			CloseHref: panel.Href(s.path, panel.SetOpen(query, link.Slug, false)),
		})
	}
	return section
}

func (s *Site) Render(w io.Writer, page Page) error {
	return s.tmpl.ExecuteTemplate(w, "page.html", page)
}
