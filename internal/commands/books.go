package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"bookshelf/internal/book"
	"bookshelf/internal/collection"
)

// Printer receives console output lines.
type Printer func(line string)

// RegisterBooks adds the collection commands: add, remove, list and help.
func RegisterBooks(r *Registry, store *collection.Store, out Printer) {
	addFlags := NewFlagSet("add")
	id := addFlags.String("id", "", "book id (generated when empty)")
	title := addFlags.StringP("title", "t", "", "book title")
	authors := addFlags.StringArrayP("author", "a", nil, "author (repeatable)")
	cover := addFlags.StringP("cover", "c", "", "cover image URL")
	r.Register("add", `--title "T" [--author "A"]... [--cover URL] [--id ID]`, addFlags, func(args []string) error {
		t := *title
		if t == "" && len(args) > 0 {
			t = strings.Join(args, " ")
		}
		bid := *id
		if bid == "" {
			bid = uuid.NewString()
		}
		b := book.New(bid, t, *authors, *cover)
		added, err := store.AddBook(b)
		if err != nil {
			return err
		}
		if !added {
			out(fmt.Sprintf("%q is already on the shelf", b.ID))
			return nil
		}
		out(fmt.Sprintf("added %s %q", b.ID, b.Title))
		return nil
	})

	r.Register("remove", "ID", nil, func(args []string) error {
		if len(args) != 1 {
			return errors.New("remove: expected one book id")
		}
		if !store.RemoveBook(args[0]) {
			out(fmt.Sprintf("no book with id %q", args[0]))
			return nil
		}
		out("removed " + args[0])
		return nil
	})

	r.Register("list", "", nil, func([]string) error {
		books := store.Books()
		if len(books) == 0 {
			out("the collection is empty")
			return nil
		}
		for _, b := range books {
			out(fmt.Sprintf("%s  %q  %s", b.ID, b.Title, b.Byline()))
		}
		return nil
	})

	r.Register("help", "", nil, func([]string) error {
		for _, line := range r.Usage() {
			out(line)
		}
		return nil
	})
}

// RegisterToggle adds a command taking "on" or "off", e.g. "fps on".
func RegisterToggle(r *Registry, name, what string, set func(on bool)) {
	r.Register(name, "on|off   toggle "+what, nil, func(args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s: expected on or off", name)
		}
		switch strings.ToLower(args[0]) {
		case "on", "true", "1":
			set(true)
		case "off", "false", "0":
			set(false)
		default:
			return fmt.Errorf("%s: expected on or off, got %q", name, args[0])
		}
		return nil
	})
}
