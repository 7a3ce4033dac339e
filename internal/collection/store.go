package collection

import (
	"fmt"
	"sync"

	"github.com/jinzhu/copier"

	"bookshelf/internal/book"
)

// Listener receives the collection contents after every change.
type Listener func(books []book.Book)

// Store is the user's book collection: an ordered list with unique IDs.
// It is safe for concurrent use. Listeners are called synchronously on the goroutine that made
// the change, after the store lock is released, so a listener may read the store again.
type Store struct {
	mu        sync.RWMutex
	books     []book.Book
	listeners map[int]Listener
	order     []int
	nextSub   int
}

// New returns an empty store.
func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// Books returns a deep copy of the collection in insertion order.
func (s *Store) Books() []book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.books)
}

// Book returns a copy of the book with the given ID.
func (s *Store) Book(id string) (book.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return book.Book{}, false
	}
	return cloneBook(s.books[i]), true
}

// Len returns the number of books in the collection.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// AddBook appends b. A book whose ID is already present is not added and false is returned
// with a nil error; an invalid book returns the validation error.
func (s *Store) AddBook(b book.Book) (bool, error) {
	if err := b.Validate(); err != nil {
		return false, fmt.Errorf("collection: add: %w", err)
	}
	s.mu.Lock()
	if s.indexOf(b.ID) >= 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.books = append(s.books, cloneBook(b))
	books, ls := s.changedLocked()
	s.mu.Unlock()
	notify(ls, books)
	return true, nil
}

// RemoveBook deletes the book with the given ID. Returns false if it was not present.
func (s *Store) RemoveBook(id string) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.books = append(s.books[:i], s.books[i+1:]...)
	books, ls := s.changedLocked()
	s.mu.Unlock()
	notify(ls, books)
	return true
}

// UpdatePlacement records a placement hint for a book. Passing nil clears it.
func (s *Store) UpdatePlacement(id string, p *book.Placement) bool {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	if p == nil {
		s.books[i].Placement = nil
	} else {
		cp := *p
		s.books[i].Placement = &cp
	}
	books, ls := s.changedLocked()
	s.mu.Unlock()
	notify(ls, books)
	return true
}

// Subscribe registers fn to be called after every change. The returned function unsubscribes;
// calling it more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, o := range s.order {
				if o == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *Store) indexOf(id string) int {
	for i := range s.books {
		if s.books[i].ID == id {
			return i
		}
	}
	return -1
}

// changedLocked captures what listeners need while the lock is still held.
func (s *Store) changedLocked() ([]book.Book, []Listener) {
	if len(s.order) == 0 {
		return nil, nil
	}
	ls := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		ls = append(ls, s.listeners[id])
	}
	return snapshot(s.books), ls
}

func notify(ls []Listener, books []book.Book) {
	for _, fn := range ls {
		fn(snapshot(books))
	}
}

func snapshot(books []book.Book) []book.Book {
	out := make([]book.Book, 0, len(books))
	if err := copier.CopyWithOption(&out, &books, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched kinds; fall back to a field-wise clone
		out = out[:0]
		for _, b := range books {
			out = append(out, cloneBook(b))
		}
	}
	return out
}

func cloneBook(b book.Book) book.Book {
	out := b
	if b.Authors != nil {
		out.Authors = append([]string(nil), b.Authors...)
	}
	if b.Placement != nil {
		p := *b.Placement
		out.Placement = &p
	}
	return out
}
