package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAppliesDefaults(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		authors     []string
		wantTitle   string
		wantAuthors []string
	}{
		{"complete", "Dune", []string{"Frank Herbert"}, "Dune", []string{"Frank Herbert"}},
		{"blank title", "  ", []string{"A"}, UnknownTitle, []string{"A"}},
		{"nil authors", "T", nil, "T", []string{UnknownAuthor}},
		{"only blank authors", "T", []string{"", " "}, "T", []string{UnknownAuthor}},
		{"trims authors", "T", []string{" A ", "", "B"}, "T", []string{"A", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New("id", tt.title, tt.authors, "")
			assert.Equal(t, tt.wantTitle, b.Title)
			assert.Equal(t, tt.wantAuthors, b.Authors)
		})
	}
}

func TestApplyDefaultsDoesNotAliasInput(t *testing.T) {
	in := []string{"A", "", "B"}
	New("id", "T", in, "")
	assert.Equal(t, []string{"A", "", "B"}, in)
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Book{}.Validate(), ErrMissingID)
	assert.ErrorIs(t, Book{ID: "   "}.Validate(), ErrMissingID)
	assert.NoError(t, Book{ID: "b1"}.Validate())
}

func TestByline(t *testing.T) {
	assert.Equal(t, "By A, B", Book{Authors: []string{"A", "B"}}.Byline())
	assert.Equal(t, "By Unknown Author", Book{}.Byline())
}

func TestHasCover(t *testing.T) {
	assert.False(t, Book{}.HasCover())
	assert.True(t, Book{CoverURL: "https://covers.example/1.jpg"}.HasCover())
}
