package recommend

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"bookrec/backend/features/book"
	"bookrec/backend/internal/index"
)

type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]index.Match, error)
}

type Catalog interface {
	ByISBN(id string) (book.Book, error)
	HasColumn(name string) bool
}

type Service struct {
	catalog  Catalog
	searcher Searcher
	logger   *QueryLogger
}

func NewService(catalog Catalog, searcher Searcher, logger *QueryLogger) *Service {
	return &Service{catalog: catalog, searcher: searcher, logger: logger}
}

// Recommend never fails: any internal error is logged and mapped to an
// empty result, so callers cannot distinguish "no matches" from a backend
// fault. That distinction lives in the logs.
func (s *Service) Recommend(ctx context.Context, req Request) []book.Book {
	start := time.Now()

	books, err := s.recommend(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "recommendation pipeline failed", "error", err, "query", req.Query)
		return []book.Book{}
	}
	if books == nil {
		books = []book.Book{}
	}

	if s.logger != nil {
		s.logger.Log(QueryLogEntry{
			Query:      req.Query,
			Category:   req.Category,
			Tone:       req.Tone,
			NumResults: len(books),
			Duration:   time.Since(start),
		})
	}
	return books
}

func (s *Service) recommend(ctx context.Context, req Request) ([]book.Book, error) {
	matches, err := s.searcher.Search(ctx, req.Query, req.InitialTopK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, nil
	}

	// A document's identifier is its first whitespace token, optionally
	// wrapped in quotes. Malformed documents are skipped, never fatal.
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		fields := strings.Fields(strings.Trim(m.Content, `"`))
		if len(fields) == 0 {
			slog.WarnContext(ctx, "unparsable document in search results", "content", m.Content)
			continue
		}
		ids = append(ids, fields[0])
	}

	// Join against the catalog in relevance order. Documents may reference
	// identifiers the catalog no longer has; those are dropped silently.
	seen := make(map[string]bool, len(ids))
	recs := make([]book.Book, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		b, err := s.catalog.ByISBN(id)
		if err != nil {
			continue
		}
		recs = append(recs, b)
	}
	if len(recs) == 0 {
		return nil, nil
	}

	// The initial_top_k window applies before the category filter, so the
	// filter can shrink the result below final_top_k even when more
	// matching rows exist past the window.
	if len(recs) > req.InitialTopK {
		recs = recs[:req.InitialTopK]
	}

	if req.Category != "All" {
		if s.catalog.HasColumn("simple_categories") {
			filtered := make([]book.Book, 0, len(recs))
			for _, b := range recs {
				if b.SimpleCategories != nil && *b.SimpleCategories == req.Category {
					filtered = append(filtered, b)
				}
			}
			recs = filtered
		} else {
			slog.WarnContext(ctx, "simple_categories column missing, skipping category filter", "category", req.Category)
		}
	}

	if req.Tone != "All" {
		column := toneColumns[req.Tone]
		if s.catalog.HasColumn(column) {
			// Stable: equal scores keep their relevance order. Rows
			// without a score for this column sort last.
			sort.SliceStable(recs, func(i, j int) bool {
				si, iok := recs[i].EmotionScore(column)
				sj, jok := recs[j].EmotionScore(column)
				if iok != jok {
					return iok
				}
				return si > sj
			})
		} else {
			slog.WarnContext(ctx, "emotion column missing, skipping tone ranking", "tone", req.Tone, "column", column)
		}
	}

	if len(recs) > req.FinalTopK {
		recs = recs[:req.FinalTopK]
	}
	return recs, nil
}
