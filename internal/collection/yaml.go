package collection

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"bookshelf/internal/book"
)

// File is the on-disk shape of a book list.
type File struct {
	Books []book.Book `yaml:"books"`
}

// ReadBooks decodes a YAML book list from r, applying display defaults to every entry.
func ReadBooks(r io.Reader) ([]book.Book, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("collection: decode books: %w", err)
	}
	for i := range f.Books {
		f.Books[i].ApplyDefaults()
	}
	return f.Books, nil
}

// LoadFile reads a YAML book list from path.
func LoadFile(path string) ([]book.Book, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("collection: %w", err)
	}
	defer fh.Close()
	return ReadBooks(fh)
}

// Seed adds books in order, skipping duplicates. It stops at the first invalid book and returns
// how many were added before it.
func (s *Store) Seed(books []book.Book) (int, error) {
	n := 0
	for _, b := range books {
		added, err := s.AddBook(b)
		if err != nil {
			return n, err
		}
		if added {
			n++
		}
	}
	return n, nil
}
