package book

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gocarina/gocsv"

	"bookrec/backend/internal/isbn"
)

var ErrNotFound = errors.New("book not found")

// largeThumbnailSuffix requests a wider cover image from the upstream CDN.
const largeThumbnailSuffix = "&fife=w800"

// Book is one catalog row. Category and emotion scores are optional: nil
// means the source file has no value (or no column at all), and JSON output
// omits them rather than fabricating data.
type Book struct {
	ISBN13           string   `json:"isbn13" csv:"isbn13"`
	ISBN10           string   `json:"-" csv:"isbn10"`
	Title            string   `json:"title" csv:"title"`
	Authors          string   `json:"authors" csv:"authors"`
	Description      string   `json:"description" csv:"description"`
	AverageRating    float64  `json:"average_rating" csv:"average_rating"`
	Thumbnail        string   `json:"-" csv:"thumbnail"`
	LargeThumbnail   string   `json:"large_thumbnail" csv:"-"`
	SimpleCategories *string  `json:"simple_categories,omitempty" csv:"simple_categories,omitempty"`
	Joy              *float64 `json:"joy,omitempty" csv:"joy,omitempty"`
	Surprise         *float64 `json:"surprise,omitempty" csv:"surprise,omitempty"`
	Anger            *float64 `json:"anger,omitempty" csv:"anger,omitempty"`
	Fear             *float64 `json:"fear,omitempty" csv:"fear,omitempty"`
	Sadness          *float64 `json:"sadness,omitempty" csv:"sadness,omitempty"`
}

// EmotionScore returns the named emotion score and whether the row has one.
func (b Book) EmotionScore(column string) (float64, bool) {
	var v *float64
	switch column {
	case "joy":
		v = b.Joy
	case "surprise":
		v = b.Surprise
	case "anger":
		v = b.Anger
	case "fear":
		v = b.Fear
	case "sadness":
		v = b.Sadness
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Store holds the catalog in memory. It is immutable after construction,
// so concurrent reads need no locking; accessors hand out copies.
type Store struct {
	books   []Book
	byISBN  map[string]int
	columns map[string]bool
}

// NewStore loads the catalog from a CSV file. It records column presence
// once, normalizes identifiers, derives large thumbnails, and keeps the
// first row per isbn13.
func NewStore(path, noCoverURL string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("book: read catalog: %w", err)
	}

	header, err := csv.NewReader(bytes.NewReader(data)).Read()
	if err != nil {
		return nil, fmt.Errorf("book: read catalog header: %w", err)
	}
	columns := make(map[string]bool, len(header))
	for _, name := range header {
		columns[strings.TrimSpace(name)] = true
	}

	var rows []*Book
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		return nil, fmt.Errorf("book: decode catalog: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("book: catalog %s has no rows", path)
	}

	s := &Store{
		books:   make([]Book, 0, len(rows)),
		byISBN:  make(map[string]int, len(rows)),
		columns: columns,
	}
	for _, r := range rows {
		b := *r
		b.ISBN13 = isbn.Normalize(b.ISBN13)
		if !isbn.Valid(b.ISBN13) {
			// Some exports carry only the ISBN-10; derive the canonical key.
			if derived := isbn.To13(isbn.Normalize(b.ISBN10)); derived != "" {
				b.ISBN13 = derived
			}
		}
		if b.Thumbnail != "" {
			b.LargeThumbnail = b.Thumbnail + largeThumbnailSuffix
		} else {
			b.LargeThumbnail = noCoverURL
		}
		if _, dup := s.byISBN[b.ISBN13]; dup {
			continue
		}
		s.byISBN[b.ISBN13] = len(s.books)
		s.books = append(s.books, b)
	}
	return s, nil
}

// All returns up to limit books in load order. A non-positive limit returns
// the whole catalog.
func (s *Store) All(limit int) []Book {
	if limit <= 0 || limit > len(s.books) {
		limit = len(s.books)
	}
	return append([]Book(nil), s.books[:limit]...)
}

func (s *Store) ByISBN(id string) (Book, error) {
	i, ok := s.byISBN[id]
	if !ok {
		return Book{}, ErrNotFound
	}
	return s.books[i], nil
}

// Search matches text case-insensitively against title or authors and
// returns up to limit books in load order.
func (s *Store) Search(text string, limit int) []Book {
	needle := strings.ToLower(text)
	out := []Book{}
	for _, b := range s.books {
		if len(out) >= limit {
			break
		}
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Authors), needle) {
			out = append(out, b)
		}
	}
	return out
}

// HasColumn reports whether the source file carried the named column.
func (s *Store) HasColumn(name string) bool {
	return s.columns[name]
}

func (s *Store) Len() int {
	return len(s.books)
}
