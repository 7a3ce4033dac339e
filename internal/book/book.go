package book

import (
	"errors"
	"strings"
)

// Display defaults used when a source supplies no title or authors.
const (
	UnknownTitle  = "Unknown Title"
	UnknownAuthor = "Unknown Author"
)

// ErrMissingID is returned by Validate for a book without an identifier.
var ErrMissingID = errors.New("book: missing id")

// Placement is an optional position hint carried with a book. The shelf computes its own
// layout; the hint is kept for collaborators that persist a user's arrangement.
type Placement struct {
	X        float32 `yaml:"x" json:"x"`
	Y        float32 `yaml:"y" json:"y"`
	Z        float32 `yaml:"z" json:"z"`
	Rotation float32 `yaml:"rotation" json:"rotation"`
}

// Book is one entry in the user's collection. ID is unique within a collection.
// An empty CoverURL means the book has no cover image.
type Book struct {
	ID        string     `yaml:"id" json:"id"`
	Title     string     `yaml:"title" json:"title"`
	Authors   []string   `yaml:"authors" json:"authors"`
	CoverURL  string     `yaml:"cover_url,omitempty" json:"cover_url,omitempty"`
	Placement *Placement `yaml:"placement,omitempty" json:"placement,omitempty"`
}

// New returns a book with display defaults applied to a blank title or empty author list.
func New(id, title string, authors []string, coverURL string) Book {
	b := Book{ID: id, Title: title, Authors: authors, CoverURL: coverURL}
	b.ApplyDefaults()
	return b
}

// ApplyDefaults fills in "Unknown Title" / "Unknown Author" where the source left them blank.
func (b *Book) ApplyDefaults() {
	if strings.TrimSpace(b.Title) == "" {
		b.Title = UnknownTitle
	}
	authors := b.Authors[:0:0]
	for _, a := range b.Authors {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	if len(authors) == 0 {
		authors = []string{UnknownAuthor}
	}
	b.Authors = authors
}

// Validate reports whether the book can be stored.
func (b Book) Validate() error {
	if strings.TrimSpace(b.ID) == "" {
		return ErrMissingID
	}
	return nil
}

// HasCover reports whether a cover image URL is set.
func (b Book) HasCover() bool {
	return b.CoverURL != ""
}

// Byline renders the author list for display, e.g. "By Ursula K. Le Guin, Terry Pratchett".
func (b Book) Byline() string {
	if len(b.Authors) == 0 {
		return "By " + UnknownAuthor
	}
	return "By " + strings.Join(b.Authors, ", ")
}
