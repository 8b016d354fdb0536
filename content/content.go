// Package content loads the work and writing entries shown on the home page.
// Entries are markdown files with a YAML frontmatter block, embedded at build
// time.
package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	"gopkg.in/yaml.v3"

	"github.com/nordlys/portfolio/shared"
)

//go:embed work/*.md writing/*.md
var embedded embed.FS

const dateLayout = "2006-01-02"

var (
	ErrMissingFrontmatter = errors.New("missing frontmatter")
	ErrDuplicateSlug      = errors.New("duplicate slug")
)

type Category string

const (
	Work    Category = shared.CONTENT_WORK
	Writing Category = shared.CONTENT_WRITING
)

type Item struct {
	Slug        string
	Title       string
	Description string
	ImageSrc    string
	ImageAlt    string
	Category    Category
	Date        time.Time
	VideoSrc    string
	Body        template.HTML
}

type frontmatter struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ImageSrc    string `yaml:"imageSrc"`
	ImageAlt    string `yaml:"imageAlt"`
	Category    string `yaml:"category"`
	Date        string `yaml:"date"`
	VideoSrc    string `yaml:"videoSrc"`
}

// LinkItem is what a card on the page needs to render itself and its panel
type LinkItem struct {
	Slug        string
	ImageSrc    string
	ImageAlt    string
	Title       string
	Description string
	Content     template.HTML
	VideoSrc    string
}

type Library struct {
	items []Item
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// Load reads the entries embedded in the binary
func Load() (*Library, error) {
	return LoadFS(embedded)
}

// LoadFS reads every markdown file under the work and writing directories of fsys.
// The directory an entry lives in is its category unless the frontmatter says otherwise.
func LoadFS(fsys fs.FS) (*Library, error) {
	var items []Item
	seen := map[string]string{}
	for _, category := range []Category{Work, Writing} {
		entries, err := fs.ReadDir(fsys, string(category))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || path.Ext(entry.Name()) != ".md" {
				continue
			}
			name := path.Join(string(category), entry.Name())
			raw, err := fs.ReadFile(fsys, name)
			if err != nil {
				return nil, err
			}
			item, err := Parse(raw, category)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if other, ok := seen[item.Slug]; ok {
				return nil, fmt.Errorf("%s: %w %q, already used by %s", name, ErrDuplicateSlug, item.Slug, other)
			}
			seen[item.Slug] = name
			items = append(items, item)
		}
	}
	return NewLibrary(items), nil
}

// Parse turns a single markdown document into an item
func Parse(raw []byte, category Category) (Item, error) {
	head, body, err := splitFrontmatter(raw)
	if err != nil {
		return Item{}, err
	}

	var meta frontmatter
	if err := yaml.Unmarshal(head, &meta); err != nil {
		return Item{}, fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if meta.Slug == "" {
		return Item{}, errors.New("frontmatter is missing a slug")
	}
	if meta.Title == "" {
		return Item{}, errors.New("frontmatter is missing a title")
	}
	date, err := time.Parse(dateLayout, meta.Date)
	if err != nil {
		return Item{}, fmt.Errorf("invalid date %q: %w", meta.Date, err)
	}
	if meta.Category != "" {
		category = Category(meta.Category)
	}
	if category != Work && category != Writing {
		return Item{}, fmt.Errorf("unknown category %q", category)
	}

	var rendered bytes.Buffer
	if err := markdown.Convert(body, &rendered); err != nil {
		return Item{}, fmt.Errorf("failed to render markdown: %w", err)
	}

	return Item{
		Slug:        meta.Slug,
		Title:       meta.Title,
		Description: meta.Description,
		ImageSrc:    meta.ImageSrc,
		ImageAlt:    meta.ImageAlt,
		Category:    category,
		Date:        date,
		VideoSrc:    meta.VideoSrc,
		Body:        template.HTML(rendered.String()),
	}, nil
}

func splitFrontmatter(raw []byte) ([]byte, []byte, error) {
	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return nil, nil, ErrMissingFrontmatter
	}
	rest := text[len("---\n"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return nil, nil, ErrMissingFrontmatter
	}
	head := rest[:end]
	body := strings.TrimPrefix(rest[end+len("\n---"):], "\n")
	return []byte(head), []byte(body), nil
}

func NewLibrary(items []Item) *Library {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sortByDate(sorted)
	return &Library{items: sorted}
}

// newest first, slug breaks ties so the order is stable across loads
func sortByDate(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.Equal(items[j].Date) {
			return items[i].Slug < items[j].Slug
		}
		return items[i].Date.After(items[j].Date)
	})
}

// Recent returns the n newest items across every category
func (l *Library) Recent(n int) []Item {
	if n <= 0 {
		n = 3
	}
	if n > len(l.items) {
		n = len(l.items)
	}
	recent := make([]Item, n)
	copy(recent, l.items[:n])
	return recent
}

func (l *Library) ByCategory(c Category) []Item {
	var items []Item
	for _, item := range l.items {
		if item.Category == c {
			items = append(items, item)
		}
	}
	return items
}

func (l *Library) Find(slug string) (Item, bool) {
	for _, item := range l.items {
		if item.Slug == slug {
			return item, true
		}
	}
	return Item{}, false
}

func (l *Library) Len() int {
	return len(l.items)
}

func ToLinkItem(item Item) LinkItem {
	return LinkItem{
		Slug:        item.Slug,
		ImageSrc:    item.ImageSrc,
		ImageAlt:    item.ImageAlt,
		Title:       item.Title,
		Description: item.Description,
		Content:     item.Body,
		VideoSrc:    item.VideoSrc,
	}
}

func ToLinkItems(items []Item) []LinkItem {
	links := make([]LinkItem, 0, len(items))
	for _, item := range items {
		links = append(links, ToLinkItem(item))
	}
	return links
}
